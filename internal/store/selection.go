package store

import (
	"sync"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

// SelectionContext holds the current user, selected organization, selected
// company, and the list of known companies. Company entries dedupe by id with
// last write winning, preserving first-seen order.
type SelectionContext struct {
	mu                sync.RWMutex
	user              model.User
	organization      model.Organization
	companies         []model.Company
	selectedCompanyID string
}

// SelectionState is a read-only snapshot for the view layer.
type SelectionState struct {
	User              model.User         `json:"user"`
	Organization      model.Organization `json:"organization"`
	Companies         []model.Company    `json:"companies"`
	SelectedCompanyID string             `json:"selected_company_id,omitempty"`
}

// NewSelectionContext creates an empty selection context.
func NewSelectionContext() *SelectionContext {
	return &SelectionContext{companies: make([]model.Company, 0)}
}

// SetUser sets the current user.
func (s *SelectionContext) SetUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// SetOrganization sets the selected organization.
func (s *SelectionContext) SetOrganization(org model.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organization = org
}

// SetCompanies replaces the company list, deduplicating by id. When an
// incoming id matches an existing entry, the existing slot is overwritten in
// place so first-seen order is kept.
func (s *SelectionContext) SetCompanies(companies []model.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range companies {
		s.putCompany(c)
	}
}

// AddCompany adds one company, overwriting in place if the id already exists.
func (s *SelectionContext) AddCompany(c model.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCompany(c)
}

// putCompany upserts by id. Callers must hold the lock.
func (s *SelectionContext) putCompany(c model.Company) {
	for i := range s.companies {
		if s.companies[i].ID == c.ID {
			s.companies[i] = c
			return
		}
	}
	s.companies = append(s.companies, c)
}

// SelectCompany moves the selected-company pointer. No-op for unknown ids.
func (s *SelectionContext) SelectCompany(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.companies {
		if s.companies[i].ID == id {
			s.selectedCompanyID = id
			return true
		}
	}
	return false
}

// Companies returns a copy of the company list.
func (s *SelectionContext) Companies() []model.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Company(nil), s.companies...)
}

// SelectedCompany returns the selected company, if any.
func (s *SelectionContext) SelectedCompany() (model.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.companies {
		if c.ID == s.selectedCompanyID {
			return c, true
		}
	}
	return model.Company{}, false
}

// Snapshot returns a copied view of the selection context.
func (s *SelectionContext) Snapshot() SelectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SelectionState{
		User:              s.user,
		Organization:      s.organization,
		Companies:         append([]model.Company(nil), s.companies...),
		SelectedCompanyID: s.selectedCompanyID,
	}
}
