package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finboard-ai/workspace-platform/internal/model"
)

func TestSetCompaniesMergesByID(t *testing.T) {
	s := NewSelectionContext()

	s.SetCompanies([]model.Company{
		{ID: "c1", Name: "Acme", Ticker: "ACME"},
		{ID: "c2", Name: "Globex", Ticker: "GLBX"},
	})
	s.SetCompanies([]model.Company{
		{ID: "c1", Name: "Acme Corp", Ticker: "ACME"},
	})

	companies := s.Companies()
	require.Len(t, companies, 2)
	assert.Equal(t, "c1", companies[0].ID)
	assert.Equal(t, "Acme Corp", companies[0].Name, "last write wins")
	assert.Equal(t, "c2", companies[1].ID, "first-seen order kept")
}

func TestAddCompanyUpserts(t *testing.T) {
	s := NewSelectionContext()
	s.AddCompany(model.Company{ID: "c1", Name: "Acme"})
	s.AddCompany(model.Company{ID: "c1", Name: "Acme Corp"})

	companies := s.Companies()
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme Corp", companies[0].Name)
}

func TestSelectCompanyChecksExistence(t *testing.T) {
	s := NewSelectionContext()
	s.AddCompany(model.Company{ID: "c1", Name: "Acme"})

	assert.False(t, s.SelectCompany("missing"))
	_, ok := s.SelectedCompany()
	assert.False(t, ok)

	assert.True(t, s.SelectCompany("c1"))
	selected, ok := s.SelectedCompany()
	require.True(t, ok)
	assert.Equal(t, "c1", selected.ID)
}

func TestSelectionSnapshot(t *testing.T) {
	s := NewSelectionContext()
	s.SetUser(model.User{ID: "u1", Email: "a@b.c"})
	s.SetOrganization(model.Organization{ID: "o1", Name: "Fin"})
	s.AddCompany(model.Company{ID: "c1"})
	s.SelectCompany("c1")

	state := s.Snapshot()
	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, "o1", state.Organization.ID)
	assert.Equal(t, "c1", state.SelectedCompanyID)
	require.Len(t, state.Companies, 1)

	state.Companies[0].Name = "mutated"
	assert.NotEqual(t, "mutated", s.Companies()[0].Name)
}
