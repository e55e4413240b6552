// Package dto defines the HTTP transport objects for the applications
// feature.
package dto

// ApplyReq is the body of POST /api/jobs/:id/apply.
type ApplyReq struct {
	CoverLetter string `json:"cover_letter"`
}

// UpdateStatusReq is the body of PATCH /api/applications/:id.
type UpdateStatusReq struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}
