package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aph/pathlabel/internal/core/domain"
)

// MutationKind names an account change staged on a UserDirectory.
type MutationKind string

const (
	MutationRename   MutationKind = "rename"
	MutationPassword MutationKind = "password"
	MutationStatus   MutationKind = "status"
)

// Mutation is a staged account change waiting for the server's verdict.
type Mutation struct {
	Kind      MutationKind
	UserID    string
	FirstName string
	Password  string
	Status    domain.UserStatus
}

// UserDirectory is the account list of the user management screen. Changes
// go through two phases: Stage records the intent, then Commit applies it to
// the list once the server confirmed, or Revert drops it.
type UserDirectory struct {
	users   []domain.User
	pending *Mutation
}

// NewUserDirectory copies users and sorts them by employee id.
func NewUserDirectory(users []domain.User) *UserDirectory {
	sorted := make([]domain.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EmployeeID < sorted[j].EmployeeID
	})
	return &UserDirectory{users: sorted}
}

// Users returns every account in display order.
func (d *UserDirectory) Users() []domain.User { return d.users }

// Search returns the accounts whose first name or employee id contains term,
// ignoring case. The directory itself is unchanged.
func (d *UserDirectory) Search(term string) []domain.User {
	if term == "" {
		return d.users
	}
	term = strings.ToLower(term)
	out := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		if strings.Contains(strings.ToLower(u.FirstName), term) ||
			strings.Contains(strings.ToLower(u.EmployeeID), term) {
			out = append(out, u)
		}
	}
	return out
}

// Pending returns the staged mutation, if any.
func (d *UserDirectory) Pending() *Mutation { return d.pending }

// StageRename stages a new first name. An empty name is a cancelled prompt.
func (d *UserDirectory) StageRename(id, firstName string) (*Mutation, error) {
	if firstName == "" {
		return nil, domain.ErrNothingToApply
	}
	return d.stage(Mutation{Kind: MutationRename, UserID: id, FirstName: firstName})
}

// StagePasswordReset stages a new password. An empty password is a cancelled prompt.
func (d *UserDirectory) StagePasswordReset(id, password string) (*Mutation, error) {
	if password == "" {
		return nil, domain.ErrNothingToApply
	}
	return d.stage(Mutation{Kind: MutationPassword, UserID: id, Password: password})
}

// StageToggle stages the opposite of the account's current status.
func (d *UserDirectory) StageToggle(id string) (*Mutation, error) {
	i := d.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	return d.stage(Mutation{Kind: MutationStatus, UserID: id, Status: d.users[i].Status.Toggle()})
}

// Commit applies the staged mutation to the list. Password resets leave the
// list untouched.
func (d *UserDirectory) Commit() error {
	m := d.pending
	if m == nil {
		return domain.ErrNothingToApply
	}
	d.pending = nil

	i := d.index(m.UserID)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, m.UserID)
	}
	switch m.Kind {
	case MutationRename:
		d.users[i].FirstName = m.FirstName
	case MutationStatus:
		d.users[i].Status = m.Status
	}
	return nil
}

// Revert drops the staged mutation.
func (d *UserDirectory) Revert() { d.pending = nil }

func (d *UserDirectory) stage(m Mutation) (*Mutation, error) {
	if d.index(m.UserID) < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, m.UserID)
	}
	d.pending = &m
	return d.pending, nil
}

func (d *UserDirectory) index(id string) int {
	for i, u := range d.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
