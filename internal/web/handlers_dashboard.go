package web

import (
	"net/http"

	"github.com/avenard/clubregistry/internal/domain"
)

// DashboardSummary is the headline view of the registry.
type DashboardSummary struct {
	Members        int64 `json:"members"`
	MembersPaid    int64 `json:"membersPaid"`
	MembersPending int64 `json:"membersPending"`
	Coaches        int64 `json:"coaches"`
	Courses        int64 `json:"courses"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := s.deps.Members.List(ctx)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	summary := DashboardSummary{Members: int64(len(members))}
	for _, m := range members {
		if m.PaymentStatus == domain.PaymentPaid {
			summary.MembersPaid++
		} else {
			summary.MembersPending++
		}
	}

	if summary.Coaches, err = s.deps.Coaches.Count(ctx); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if summary.Courses, err = s.deps.Courses.Count(ctx); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
