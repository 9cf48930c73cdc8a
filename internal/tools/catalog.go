package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names advertised by the catalog.
const (
	ToolListMessages = "list_gmail_messages"
	ToolGetMessage   = "get_gmail_message"
	ToolAddLabels    = "add_gmail_labels"
	ToolRemoveLabels = "remove_gmail_labels"
	ToolTrashMessage = "trash_gmail_message"
	ToolGetLabels    = "get_gmail_labels"
)

// Catalog returns the full, versioned tool list. The result is built fresh on
// every call; callers may mutate it freely.
func Catalog() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolListMessages,
			mcp.WithDescription("List Gmail messages with search and pagination support"),
			mcp.WithString("query",
				mcp.Description("Gmail search query (e.g., 'in:inbox', 'from:user@example.com')"),
			),
			mcp.WithNumber("max_results",
				mcp.Description("Maximum number of results per page (1-100)"),
				mcp.DefaultNumber(10),
			),
			mcp.WithString("page_token",
				mcp.Description("Token for fetching the next page of results"),
			),
			mcp.WithString("label_ids",
				mcp.Description("Comma-separated label IDs to filter by"),
			),
		),
		mcp.NewTool(ToolGetMessage,
			mcp.WithDescription("Get the full content of a single Gmail message"),
			mcp.WithString("message_id",
				mcp.Required(),
				mcp.Description("The ID of the message to fetch"),
			),
		),
		mcp.NewTool(ToolAddLabels,
			mcp.WithDescription("Add labels to a Gmail message"),
			mcp.WithString("message_id",
				mcp.Required(),
				mcp.Description("The ID of the message to label"),
			),
			mcp.WithArray("label_ids",
				mcp.Required(),
				mcp.Description("Label IDs to add"),
				mcp.Items(map[string]any{"type": "string"}),
			),
		),
		mcp.NewTool(ToolRemoveLabels,
			mcp.WithDescription("Remove labels from a Gmail message"),
			mcp.WithString("message_id",
				mcp.Required(),
				mcp.Description("The ID of the message to unlabel"),
			),
			mcp.WithArray("label_ids",
				mcp.Required(),
				mcp.Description("Label IDs to remove"),
				mcp.Items(map[string]any{"type": "string"}),
			),
		),
		mcp.NewTool(ToolTrashMessage,
			mcp.WithDescription("Move a Gmail message to the trash"),
			mcp.WithString("message_id",
				mcp.Required(),
				mcp.Description("The ID of the message to trash"),
			),
		),
		mcp.NewTool(ToolGetLabels,
			mcp.WithDescription("List all Gmail labels (system and user)"),
		),
	}
}

// Names returns the catalog's tool names in declaration order.
func Names() []string {
	catalog := Catalog()
	names := make([]string, 0, len(catalog))
	for _, tool := range catalog {
		names = append(names, tool.Name)
	}
	return names
}
