package session

import (
	"context"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

type Session struct {
	Context context.Context `json:"-"`

	Token       string    `json:"token"`
	Identity    Identity  `json:"identity"`
	Perms       []string  `json:"perms"`
	SigningTime time.Time `json:"-"`
}

func (s *Session) Clone() Session {
	c := *s
	c.Perms = append([]string{}, s.Perms...)
	return c
}

func (s *Session) HasRole(role string) bool {
	for _, v := range s.Perms {
		if strings.EqualFold(v, role) {
			return true
		}
	}
	return false
}

func (s *Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// CanOverrideWorkflowStep reports whether the session may complete a workflow
// step it is not assigned to.
func (s *Session) CanOverrideWorkflowStep() bool {
	return s.HasRole(RoleAdmin)
}

// CanManageWorkflowTemplates gates template creation and activation toggling.
func (s *Session) CanManageWorkflowTemplates() bool {
	return s.HasRole(RoleAdmin) || s.HasRole(RoleManager)
}
