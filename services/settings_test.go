package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-sharebot/models"
)

func TestLoadSettingsInitializesFromDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newMemSettingsRepo()

	s, err := LoadSettings(ctx, repo, models.Settings{
		AutoDeleteTime: 30,
		PrefixName:     "@MyChannel",
		LinkEnabled:    true,
	}, 100)
	require.NoError(t, err)

	assert.Equal(t, 30, s.AutoDeleteMinutes())
	assert.Equal(t, "@MyChannel", s.Prefix())
	assert.True(t, s.LinkSavingEnabled())
	assert.Equal(t, DefaultShortenerURL, s.Shortener().APIURL)

	// The defaults were persisted as the singleton document.
	require.NotNil(t, repo.doc)
	assert.Equal(t, models.SettingsID, repo.doc.ID)
	assert.Equal(t, 30, repo.doc.AutoDeleteTime)
}

func TestLoadSettingsPrefersStoredDocument(t *testing.T) {
	ctx := context.Background()
	repo := newMemSettingsRepo()
	repo.doc = &models.Settings{
		ID:             models.SettingsID,
		AutoDeleteTime: 5,
		PrefixName:     "@Stored",
	}

	s, err := LoadSettings(ctx, repo, models.Settings{AutoDeleteTime: 30, PrefixName: "@Default"}, 100)
	require.NoError(t, err)

	assert.Equal(t, 5, s.AutoDeleteMinutes())
	assert.Equal(t, "@Stored", s.Prefix())
}

func TestSettingsSetWritesThrough(t *testing.T) {
	ctx := context.Background()
	repo := newMemSettingsRepo()
	s, err := LoadSettings(ctx, repo, models.Settings{}, 100)
	require.NoError(t, err)

	require.NoError(t, s.SetAutoDeleteMinutes(ctx, 15))
	assert.Equal(t, 15, s.AutoDeleteMinutes())
	assert.Equal(t, 15, repo.fields["auto_delete_time"])

	require.NoError(t, s.SetRemoveNames(ctx, []string{"mkvcinemas"}))
	assert.Equal(t, []string{"mkvcinemas"}, s.RemoveNames())

	require.NoError(t, s.SetLinkSaving(ctx, false))
	assert.False(t, s.LinkSavingEnabled())
}

func TestSettingsRejectsNegativeAutoDelete(t *testing.T) {
	ctx := context.Background()
	s, err := LoadSettings(ctx, newMemSettingsRepo(), models.Settings{}, 100)
	require.NoError(t, err)

	err = s.SetAutoDeleteMinutes(ctx, -1)
	assert.True(t, IsValidation(err))
}

func TestSettingsAuthorization(t *testing.T) {
	ctx := context.Background()
	s, err := LoadSettings(ctx, newMemSettingsRepo(), models.Settings{}, 100)
	require.NoError(t, err)

	assert.True(t, s.IsAuthorized(100))
	assert.False(t, s.IsAuthorized(200))

	require.NoError(t, s.SetSudoUsers(ctx, []int64{200, 300}))
	assert.True(t, s.IsAuthorized(200))
	assert.True(t, s.IsAuthorized(300))
	assert.False(t, s.IsAuthorized(400))
}

func TestSettingsReset(t *testing.T) {
	ctx := context.Background()
	s, err := LoadSettings(ctx, newMemSettingsRepo(), models.Settings{
		AutoDeleteTime: 30,
		PrefixName:     "@Default",
	}, 100)
	require.NoError(t, err)

	require.NoError(t, s.SetAutoDeleteMinutes(ctx, 99))
	require.NoError(t, s.SetPrefix(ctx, "@Changed"))
	require.NoError(t, s.SetSudoUsers(ctx, []int64{200}))

	require.NoError(t, s.Reset(ctx, "auto_delete_time"))
	assert.Equal(t, 30, s.AutoDeleteMinutes())

	require.NoError(t, s.Reset(ctx, "prefix_name"))
	assert.Equal(t, "@Default", s.Prefix())

	require.NoError(t, s.Reset(ctx, "sudo_users"))
	assert.Empty(t, s.SudoUsers())

	require.NoError(t, s.SetRemoveNames(ctx, []string{"mkvcinemas"}))
	require.NoError(t, s.Reset(ctx, "remove_names"))
	assert.Empty(t, s.RemoveNames())

	require.NoError(t, s.Reset(ctx, "shortener"))
	assert.Equal(t, DefaultShortenerURL, s.Shortener().APIURL)
	assert.False(t, s.Shortener().Enabled)

	assert.True(t, IsValidation(s.Reset(ctx, "no_such_field")))
}

func TestSettingsResetRestoresListDefaults(t *testing.T) {
	ctx := context.Background()
	s, err := LoadSettings(ctx, newMemSettingsRepo(), models.Settings{
		SudoUsers:   []int64{200},
		RemoveNames: []string{"mkvcinemas"},
	}, 100)
	require.NoError(t, err)

	require.NoError(t, s.SetSudoUsers(ctx, []int64{500, 600}))
	require.NoError(t, s.SetRemoveNames(ctx, []string{"othersite"}))

	// Reset goes back to the startup defaults, not to empty.
	require.NoError(t, s.Reset(ctx, "sudo_users"))
	assert.Equal(t, []int64{200}, s.SudoUsers())

	require.NoError(t, s.Reset(ctx, "remove_names"))
	assert.Equal(t, []string{"mkvcinemas"}, s.RemoveNames())
}
