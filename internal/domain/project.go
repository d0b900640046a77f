package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// MaxProjectKeyLength is the longest key a project may use.
const MaxProjectKeyLength = 10

var projectKeyRe = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// Project groups tasks under an organization. Key is unique per organization
// and prefixes every task key; LastTaskNumber only ever grows.
type Project struct {
	ID             ProjectID      `json:"id"`
	OrganizationID OrganizationID `json:"organizationId"`
	Name           string         `json:"name"`
	Key            string         `json:"key"`
	Description    string         `json:"description"`
	LastTaskNumber int            `json:"lastTaskNumber"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NormalizeProjectKey trims and uppercases key and checks its shape.
func NormalizeProjectKey(key string) (string, error) {
	k := strings.ToUpper(strings.TrimSpace(key))
	if !projectKeyRe.MatchString(k) {
		return "", domerrors.ErrInvalidProjectKey
	}
	return k, nil
}

// TaskKey derives the immutable task key for number n.
func (p *Project) TaskKey(n int) string {
	return fmt.Sprintf("%s-%d", p.Key, n)
}
