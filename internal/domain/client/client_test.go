package client

import (
	"testing"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("  Acme Coffee ", "Sara")
	require.NoError(t, err)
	assert.Equal(t, "Acme Coffee", c.BusinessName)
	assert.Equal(t, 1, c.Version)
	assert.False(t, c.IsDeleted())

	_, err = NewClient("", "Sara")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestClient_SetContact(t *testing.T) {
	c, err := NewClient("Acme", "")
	require.NoError(t, err)

	require.NoError(t, c.SetContact("owner@acme.test", "+966500000000"))
	assert.Equal(t, "owner@acme.test", c.Email)

	require.NoError(t, c.SetContact("", ""))
	assert.Error(t, c.SetContact("not-an-email", ""))
}

func TestClient_MarkDeleted(t *testing.T) {
	c, err := NewClient("Acme", "")
	require.NoError(t, err)
	c.MarkDeleted()
	assert.True(t, c.IsDeleted())
}

func TestScopedEntities(t *testing.T) {
	clientID := uuid.New()

	t.Run("segment records owner", func(t *testing.T) {
		s, err := NewSegment(clientID, valueobject.NewLocalizedText("Students", "طلاب"), "")
		require.NoError(t, err)
		assert.Equal(t, clientID, s.GetClientID())
	})

	t.Run("segment requires a client", func(t *testing.T) {
		_, err := NewSegment(uuid.Nil, valueobject.NewLocalizedText("Students", ""), "")
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "client_id", verr.Field)
	})

	t.Run("competitor requires a name", func(t *testing.T) {
		_, err := NewCompetitor(clientID, "  ", "", "")
		assert.ErrorIs(t, err, shared.ErrValidation)

		c, err := NewCompetitor(clientID, "Rival", "https://rival.test", "")
		require.NoError(t, err)
		assert.Equal(t, 1, c.Version)
		assert.Equal(t, clientID, c.GetClientID())
	})

	t.Run("branch update bumps version", func(t *testing.T) {
		b, err := NewBranch(clientID, valueobject.NewLocalizedText("Riyadh", "الرياض"), "King Fahd Rd", "Riyadh")
		require.NoError(t, err)
		require.NoError(t, b.Update(b.Name, "Olaya St", "Riyadh", "011"))
		assert.Equal(t, 2, b.Version)
		assert.Equal(t, "Olaya St", b.Address)
	})

	t.Run("social link validation", func(t *testing.T) {
		l, err := NewSocialLink(clientID, " instagram ", "@acme", "https://instagram.com/acme", "")
		require.NoError(t, err)
		assert.Equal(t, "instagram", l.Platform)
		assert.Equal(t, SocialLinkBusiness, l.Type)
		assert.Equal(t, 1, l.Version)

		var verr *shared.ValidationError
		_, err = NewSocialLink(clientID, "instagram", "", " ", SocialLinkPersonal)
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "url", verr.Field)

		err = l.Update("instagram", "", "https://instagram.com/acme", "team")
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "type", verr.Field)
		assert.Equal(t, SocialLinkBusiness, l.Type, "a rejected update leaves the link as it was")
	})
}
