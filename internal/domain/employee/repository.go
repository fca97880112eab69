package employee

import "context"

type EmployeeRepository interface {
	// GetProfile returns ErrEmployeeNotFound when the employee does not exist
	GetProfile(ctx context.Context, id string) (Profile, error)

	// SaveProfile creates or replaces the profile with p.ID
	SaveProfile(ctx context.Context, p Profile) (Profile, error)
}
