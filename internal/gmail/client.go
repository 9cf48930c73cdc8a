package gmail

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/mailgate/internal/session"
)

const (
	// MinPageSize and MaxPageSize bound the page size accepted by List.
	MinPageSize = 1
	MaxPageSize = 100
)

// listMetadataHeaders are the headers fetched for each listing entry.
var listMetadataHeaders = []string{"Subject", "From", "Date"}

// Client wraps the Gmail Users service for one live provider credential.
// A Client is cheap and built per request; the credential it holds is a
// snapshot that the session store keeps fresh.
type Client struct {
	svc     *gmailapi.UsersService
	account string
}

// Account returns the mailbox address this client acts on behalf of.
func (c *Client) Account() string {
	return c.account
}

// NewClient creates a Gmail client authenticated with the given provider
// credential. Extra options let tests point the service at a fake provider.
func NewClient(ctx context.Context, cred *session.ProviderCredential, account string, opts ...option.ClientOption) (*Client, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
	}))

	apiOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmailapi.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// List returns one page of message summaries matching the query. The page
// size must lie in [MinPageSize, MaxPageSize]; out-of-range values fail
// before any provider call. Each summary costs one extra metadata fetch,
// so a page of n messages makes n+1 provider round trips.
func (c *Client) List(ctx context.Context, query string, pageSize int64, pageToken string, labelIDs []string) (*ListResult, error) {
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: page size %d outside [%d,%d]", ErrInvalidArgument, pageSize, MinPageSize, MaxPageSize)
	}

	req := c.svc.Messages.List("me").Q(query).MaxResults(pageSize)
	if pageToken != "" {
		req = req.PageToken(pageToken)
	}
	if len(labelIDs) > 0 {
		req = req.LabelIds(labelIDs...)
	}

	res, err := req.Context(ctx).Do()
	if err != nil {
		return nil, translateError(err)
	}

	summaries := make([]MessageSummary, 0, len(res.Messages))
	for _, m := range res.Messages {
		// TODO: use the batch endpoint once google-api-go-client exposes
		// it for messages; one Get per entry dominates listing latency.
		meta, err := c.svc.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders(listMetadataHeaders...).
			Context(ctx).Do()
		if err != nil {
			return nil, translateError(err)
		}

		summaries = append(summaries, MessageSummary{
			ID:           meta.Id,
			ThreadID:     meta.ThreadId,
			LabelIDs:     meta.LabelIds,
			Snippet:      meta.Snippet,
			SizeEstimate: meta.SizeEstimate,
			HistoryID:    meta.HistoryId,
			InternalDate: meta.InternalDate,
			Subject:      headerValue(meta.Payload, "Subject"),
			From:         headerValue(meta.Payload, "From"),
			Date:         headerValue(meta.Payload, "Date"),
		})
	}

	return &ListResult{
		Messages:           summaries,
		NextPageToken:      res.NextPageToken,
		ResultSizeEstimate: res.ResultSizeEstimate,
	}, nil
}

// Get fetches a full message and extracts headers and text/HTML bodies.
func (c *Client) Get(ctx context.Context, messageID string) (*MessageDetail, error) {
	if messageID == "" {
		return nil, fmt.Errorf("%w: message id is required", ErrInvalidArgument)
	}

	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, translateError(err)
	}

	subject, sender, recipient := extractHeaders(msg.Payload)
	bodyText, bodyHTML := extractBody(msg.Payload)

	return &MessageDetail{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		LabelIDs:     msg.LabelIds,
		Snippet:      msg.Snippet,
		HistoryID:    msg.HistoryId,
		InternalDate: msg.InternalDate,
		SizeEstimate: msg.SizeEstimate,
		Subject:      subject,
		Sender:       sender,
		Recipient:    recipient,
		BodyText:     bodyText,
		BodyHTML:     bodyHTML,
	}, nil
}

// AddLabels applies labels to a message. Provider failures are converted into
// a failed outcome, never raised.
func (c *Client) AddLabels(ctx context.Context, messageID string, labelIDs []string) *LabelOutcome {
	res, err := c.svc.Messages.Modify("me", messageID, &gmailapi.ModifyMessageRequest{
		AddLabelIds: labelIDs,
	}).Context(ctx).Do()
	if err != nil {
		return &LabelOutcome{
			MessageID: messageID,
			LabelIDs:  []string{},
			Success:   false,
			Message:   fmt.Sprintf("Gmail API error: %v", err),
		}
	}

	return &LabelOutcome{
		MessageID: messageID,
		LabelIDs:  res.LabelIds,
		Success:   true,
		Message:   "Labels added successfully",
	}
}

// RemoveLabels removes labels from a message, with the same outcome contract
// as AddLabels.
func (c *Client) RemoveLabels(ctx context.Context, messageID string, labelIDs []string) *LabelOutcome {
	res, err := c.svc.Messages.Modify("me", messageID, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: labelIDs,
	}).Context(ctx).Do()
	if err != nil {
		return &LabelOutcome{
			MessageID: messageID,
			LabelIDs:  []string{},
			Success:   false,
			Message:   fmt.Sprintf("Gmail API error: %v", err),
		}
	}

	return &LabelOutcome{
		MessageID: messageID,
		LabelIDs:  res.LabelIds,
		Success:   true,
		Message:   "Labels removed successfully",
	}
}

// Trash moves a message to the trash. Trashing an already-trashed message is
// accepted by the provider and reported as success. A nonexistent id is
// returned as ErrMessageNotFound so the route layer can answer 404; all other
// provider failures become a failed outcome.
func (c *Client) Trash(ctx context.Context, messageID string) (*TrashOutcome, error) {
	_, err := c.svc.Messages.Trash("me", messageID).Context(ctx).Do()
	if err != nil {
		if translated := translateError(err); errors.Is(translated, ErrMessageNotFound) {
			return nil, translated
		}
		return &TrashOutcome{
			MessageID: messageID,
			Success:   false,
			Message:   fmt.Sprintf("Gmail API error: %v", err),
		}, nil
	}

	return &TrashOutcome{
		MessageID: messageID,
		Success:   true,
		Message:   "Message moved to trash successfully",
	}, nil
}

// ListLabels returns all system and user labels in one call; the provider
// does not paginate this listing.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, translateError(err)
	}

	labels := make([]Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, Label{
			ID:            l.Id,
			Name:          l.Name,
			Type:          l.Type,
			MessagesTotal: l.MessagesTotal,
			ThreadsTotal:  l.ThreadsTotal,
		})
	}
	return labels, nil
}
