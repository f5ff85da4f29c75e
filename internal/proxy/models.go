package proxy

import (
	"net/http"
	"time"

	"github.com/Andrea-Scuderi/xcode-bedrock-bridge/internal/openaiadapter/types"
)

// ModelCatalog resolves client model names and lists the advertised models.
type ModelCatalog interface {
	Resolve(name string) string
	Listed() []string
	OwnedBy(id string) string
}

// modelsHandler returns the static list of Bedrock inference profiles in the
// OpenAI list format. Bedrock's own model listing needs control-plane
// permissions clients rarely have, so the catalog is served locally.
func modelsHandler(catalog ModelCatalog, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created := now().Unix()
		ids := catalog.Listed()

		resp := types.ListModelsResponse{
			Object: "list",
			Data:   make([]types.Model, 0, len(ids)),
		}
		for _, id := range ids {
			resp.Data = append(resp.Data, types.Model{
				ID:      id,
				Object:  "model",
				Created: created,
				OwnedBy: catalog.OwnedBy(id),
			})
		}

		writeJSON(r.Context(), w, resp, http.StatusOK)
	}
}
