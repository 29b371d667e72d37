package services

import (
	"context"
	"sync"

	"telegram-sharebot/models"
)

// SettingsRepo persists the singleton configuration document.
type SettingsRepo interface {
	Load(ctx context.Context) (*models.Settings, error)
	Insert(ctx context.Context, doc *models.Settings) error
	SetField(ctx context.Context, key string, value any) error
}

// DefaultShortenerURL is the placeholder API endpoint a shortener reset
// falls back to.
const DefaultShortenerURL = "https://example.com/api"

// Settings is the in-memory copy of the bot configuration plus the
// authorization check. Every set updates memory and writes the single
// changed field through the repo. Last write wins; settings changes are
// rare administrative actions.
type Settings struct {
	mu       sync.RWMutex
	doc      models.Settings
	defaults models.Settings
	repo     SettingsRepo
	adminID  int64
}

// LoadSettings loads the configuration document, initializing it from
// the given defaults when absent.
func LoadSettings(ctx context.Context, repo SettingsRepo, defaults models.Settings, adminID int64) (*Settings, error) {
	defaults.ID = models.SettingsID
	if defaults.Shortener.APIURL == "" {
		defaults.Shortener.APIURL = DefaultShortenerURL
	}

	doc, err := repo.Load(ctx)
	if err != nil {
		if err != ErrNotFound {
			return nil, err
		}
		fresh := defaults
		if err := repo.Insert(ctx, &fresh); err != nil {
			return nil, err
		}
		doc = &fresh
	}

	return &Settings{doc: *doc, defaults: defaults, repo: repo, adminID: adminID}, nil
}

// IsAuthorized reports whether the user is the fixed admin or one of
// the configured sudo users.
func (s *Settings) IsAuthorized(userID int64) bool {
	if userID == s.adminID {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.doc.SudoUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *Settings) AutoDeleteMinutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.AutoDeleteTime
}

func (s *Settings) Prefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.PrefixName
}

func (s *Settings) SudoUsers() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.doc.SudoUsers))
	copy(out, s.doc.SudoUsers)
	return out
}

func (s *Settings) RemoveNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.doc.RemoveNames))
	copy(out, s.doc.RemoveNames)
	return out
}

func (s *Settings) LinkSavingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.LinkEnabled
}

func (s *Settings) Shortener() models.ShortenerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Shortener
}

func (s *Settings) SetAutoDeleteMinutes(ctx context.Context, minutes int) error {
	if minutes < 0 {
		return validationf("auto delete time must be 0 or more minutes")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SetField(ctx, "auto_delete_time", minutes); err != nil {
		return err
	}
	s.doc.AutoDeleteTime = minutes
	return nil
}

func (s *Settings) SetPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SetField(ctx, "prefix_name", prefix); err != nil {
		return err
	}
	s.doc.PrefixName = prefix
	return nil
}

func (s *Settings) SetSudoUsers(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SetField(ctx, "sudo_users", ids); err != nil {
		return err
	}
	s.doc.SudoUsers = ids
	return nil
}

func (s *Settings) SetRemoveNames(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SetField(ctx, "remove_names", names); err != nil {
		return err
	}
	s.doc.RemoveNames = names
	return nil
}

func (s *Settings) SetLinkSaving(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SetField(ctx, "link_enabled", enabled); err != nil {
		return err
	}
	s.doc.LinkEnabled = enabled
	return nil
}

func (s *Settings) SetShortener(ctx context.Context, cfg models.ShortenerConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SetField(ctx, "shortener", cfg); err != nil {
		return err
	}
	s.doc.Shortener = cfg
	return nil
}

// Reset restores one settings field to its startup default.
func (s *Settings) Reset(ctx context.Context, field string) error {
	switch field {
	case "auto_delete_time":
		return s.SetAutoDeleteMinutes(ctx, s.defaults.AutoDeleteTime)
	case "prefix_name":
		return s.SetPrefix(ctx, s.defaults.PrefixName)
	case "sudo_users":
		return s.SetSudoUsers(ctx, s.defaults.SudoUsers)
	case "remove_names":
		return s.SetRemoveNames(ctx, s.defaults.RemoveNames)
	case "link_enabled":
		return s.SetLinkSaving(ctx, s.defaults.LinkEnabled)
	case "shortener":
		return s.SetShortener(ctx, models.ShortenerConfig{APIURL: DefaultShortenerURL})
	default:
		return validationf("unknown setting %q", field)
	}
}
