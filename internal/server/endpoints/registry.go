package endpoints

import (
	"github.com/Gurmittoor/hyperlinklaw/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},

		// Documents
		&CreateDocumentEndpoint{},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},
		&DeleteDocumentEndpoint{},
		&UploadPagesEndpoint{},

		// Engine operations
		&DetectIndexEndpoint{},
		&MatchEndpoint{},
		&BatchEndpoint{},
		&ResolveEndpoint{},
	}
}

// DocumentCommands groups document CRUD and engine commands for the CLI.
func DocumentCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateDocumentEndpoint{},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},
		&DeleteDocumentEndpoint{},
		&UploadPagesEndpoint{},
		&DetectIndexEndpoint{},
		&MatchEndpoint{},
		&BatchEndpoint{},
		&ResolveEndpoint{},
	}
}
