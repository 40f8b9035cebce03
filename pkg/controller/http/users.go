package http

import (
	"net/http"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/service/directory"
)

type userResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	FullName    string `json:"full_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	Role        string `json:"role"`
	Badge       string `json:"badge,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          string(u.ID),
		DisplayName: u.DisplayName(),
		FullName:    u.FullName,
		Nickname:    u.Nickname,
		Role:        u.Role.String(),
		Badge:       u.Role.Badge(),
	}
}

func toUserResponses(users []*model.User) []userResponse {
	result := make([]userResponse, len(users))
	for i, u := range users {
		result[i] = toUserResponse(u)
	}
	return result
}

// usersHandler lists the mention directory
func usersHandler(dir *directory.Cache) http.HandlerFunc {
	type response struct {
		Available bool           `json:"available"`
		Users     []userResponse `json:"users"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, response{
			Available: dir.Available(),
			Users:     toUserResponses(dir.Users()),
		})
	}
}
