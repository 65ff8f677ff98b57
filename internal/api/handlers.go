package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.BadRequest(constants.ErrGeneralInvalidJSON)
	}
	return nil
}

// uintParam reads a positive numeric path parameter
func uintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || v == 0 {
		return 0, common.BadRequest(constants.ErrGeneralInvalidID)
	}
	return uint(v), nil
}

// uintParams reads several numeric path parameters in order
func uintParams(r *http.Request, names ...string) ([]uint, error) {
	out := make([]uint, 0, len(names))
	for _, name := range names {
		v, err := uintParam(r, name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
