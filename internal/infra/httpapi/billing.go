package httpapi

import "net/http"

func (a *api) listPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Billing.ListPlans())
}

func (a *api) subscription(w http.ResponseWriter, r *http.Request) {
	tutorID, err := idQuery(r, "tutor_id")
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	view, err := a.svc.Billing.GetSubscription(r.Context(), actorFrom(r.Context()), tutorID)
	if err != nil {
		fail(w, r, a.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
