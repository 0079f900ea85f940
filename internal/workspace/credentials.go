package workspace

import (
	"campaigndash-be/config"
	"campaigndash-be/internal/models"
)

// Resolver maps a workspace identifier to its API credential and display
// metadata. Pure lookup over configuration, no I/O.
type Resolver struct {
	defaultKey string
	keys       map[string]string
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		defaultKey: cfg.DefaultAPIKey,
		keys:       cfg.WorkspaceAPIKeys,
	}
}

// APIKey resolves the credential for workspaceID. Unknown or empty IDs fall
// back to the default slot. ok is false when the resolved slot holds no key;
// callers must skip that workspace, not fail the request.
func (r *Resolver) APIKey(workspaceID string) (string, bool) {
	key := r.defaultKey
	if k, found := r.keys[workspaceID]; found {
		key = k
	}
	return key, key != ""
}

func Name(workspaceID string) string {
	switch workspaceID {
	case "1":
		return "Wings Over Campaign (Roger)"
	case "2":
		return "Paramount Realty USA (PRUSA)"
	case "3":
		return "Workspace 3"
	case "4":
		return "Reachify (5 accounts)"
	default:
		return "Workspace " + workspaceID
	}
}

func Category(workspaceID string) models.Category {
	switch workspaceID {
	case "1":
		return models.CategoryRoger
	case "2":
		return models.CategoryPrusa
	case "4":
		return models.CategoryReachify
	default:
		return "other"
	}
}
