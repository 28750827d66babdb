// internal/graph/writer.go
package graph

import (
	"context"

	"gravity-webhook/internal/common/errors"
	"gravity-webhook/internal/common/logger"
	"gravity-webhook/internal/forms"
)

// SharePoint column internal names in the target list. The overflow columns
// (SchoolName, NumberofChildren, SportType) are reused across registration
// types rather than giving each type its own columns.
const (
	columnTitle            = "Title"
	columnRegistrationType = "RegistrationType"
	columnParentName       = "ParentName"
	columnEmail            = "Email"
	columnPhone            = "Phone"
	columnNotes            = "Notes"
	columnStatus           = "Status"
	columnSubmissionDate   = "SubmissionDate"
	columnSchoolName       = "SchoolName"
	columnNumberOfChildren = "NumberofChildren"
	columnSportType        = "SportType"
)

// Writer persists contact records as SharePoint list items.
type Writer struct {
	client *Client
	logger logger.Logger
}

// NewWriter creates a writer around an authenticated Graph client.
func NewWriter(client *Client, log logger.Logger) *Writer {
	return &Writer{client: client, logger: log}
}

// Write creates one list item for rec under the resolved handle and returns
// the new item's ID. The write is not idempotent: retried submissions create
// duplicate rows.
func (w *Writer) Write(ctx context.Context, handle *ListHandle, rec *forms.ContactRecord) (string, error) {
	fields := buildFields(rec)

	itemID, err := w.client.CreateListItem(ctx, handle.SiteID, handle.ListID, fields)
	if err != nil {
		if stdErr, ok := err.(*errors.StandardError); ok {
			return "", stdErr
		}
		details := err.Error()
		if apiErr, ok := err.(*APIError); ok {
			details = apiErr.Body
		}
		return "", errors.NewItemCreateFailedError(details)
	}

	w.logger.Info("Contact added to SharePoint", map[string]interface{}{
		"itemId":           itemID,
		"registrationType": string(rec.RegistrationType),
	})
	return itemID, nil
}

// buildFields maps a contact record onto list columns. Every record fills
// the shared columns; the overflow columns depend on the registration type.
func buildFields(rec *forms.ContactRecord) map[string]interface{} {
	title := rec.ContactName
	if title == "" {
		title = rec.Email
	}

	fields := map[string]interface{}{
		columnTitle:            title,
		columnRegistrationType: string(rec.RegistrationType),
		columnParentName:       rec.ContactName,
		columnEmail:            rec.Email,
		columnPhone:            rec.Phone,
		columnNotes:            rec.Notes,
		columnStatus:           rec.Status,
		columnSubmissionDate:   rec.SubmissionDate,
	}

	switch d := rec.Details.(type) {
	case forms.ParentDetails:
		fields[columnSchoolName] = d.SchoolName
		fields[columnNumberOfChildren] = d.NumberOfChildren
	case forms.PlayerDetails:
		fields[columnSchoolName] = d.ClubName
		// A player registration is always for exactly one player.
		fields[columnNumberOfChildren] = 1
	case forms.ClubDetails:
		fields[columnSchoolName] = d.ClubName
		fields[columnNumberOfChildren] = d.NumberOfPlayers
		fields[columnSportType] = d.SportType
	}

	return fields
}
