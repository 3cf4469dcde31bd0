package api

import "github.com/ehclinic/medcat/internal/models"

// GateStateResponse reports the gate's current state.
type GateStateResponse struct {
	State string `json:"state"`
}

// SecretRequest carries the operator's pass key for create and unlock.
type SecretRequest struct {
	Secret string `json:"secret"`
}

// UnlockResponse is returned after a successful create or unlock.
type UnlockResponse struct {
	State string `json:"state"`
	Token string `json:"token"`
}

// DiseaseListResponse wraps search results.
type DiseaseListResponse struct {
	Diseases []models.Disease `json:"diseases"`
	Total    int              `json:"total"`
}

// CreateReferenceRequest is the request body for attaching a reference.
type CreateReferenceRequest struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Note  string `json:"note"`
}

// SearchLinkResponse carries the outbound search URL for a disease.
type SearchLinkResponse struct {
	URL string `json:"url"`
}

// DeleteRequestedResponse is returned when a delete still needs confirmation.
type DeleteRequestedResponse struct {
	Status string `json:"status"`
}
