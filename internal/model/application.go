package model

import "github.com/google/uuid"

// Application is one registration of a user to a race.
type Application struct {
	ID     uuid.UUID `json:"id"`
	RaceID uuid.UUID `json:"raceId"`
	UserID uuid.UUID `json:"userId"`
}

// CreateApplicationParams represents parameters for registering to a race.
type CreateApplicationParams struct {
	RaceID string `json:"raceId" validate:"required,uuid"`
}

// Validate validates the create application parameters.
func (p *CreateApplicationParams) Validate() error {
	return validateStruct(p)
}

// ApplicationView is an application enriched with its applicant.
type ApplicationView struct {
	ID        uuid.UUID `json:"id"`
	RaceID    uuid.UUID `json:"raceId"`
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Club      *string   `json:"club"`
}

// NewApplicationView joins an application with its user. A nil user renders as "Unknown User".
func NewApplicationView(app *Application, user *User) *ApplicationView {
	view := &ApplicationView{
		ID:        app.ID,
		RaceID:    app.RaceID,
		UserID:    app.UserID,
		FirstName: "Unknown",
		LastName:  "User",
		Email:     "unknown@example.com",
	}

	if user != nil {
		view.FirstName = user.FirstName
		view.LastName = user.LastName
		view.Email = user.Email
		view.Club = user.Club
	}

	return view
}

// ApplicationRequest is an accepted registration. The read model applies it asynchronously.
type ApplicationRequest struct {
	ID             uuid.UUID `json:"id"`
	RaceID         uuid.UUID `json:"raceId"`
	ApplicantEmail string    `json:"applicantEmail"`
}
