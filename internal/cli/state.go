package cli

import (
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tablo-hq/tablo/internal/config"
	"github.com/tablo-hq/tablo/internal/tablo"
	"github.com/tablo-hq/tablo/internal/version"
)

type state struct {
	configPath string
	cfg        config.Config
	dirty      bool
	log        *logrus.Logger
}

func (s *state) session() *config.SessionConfig { return s.cfg.Sess() }

func (s *state) load() error {
	if s.configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		s.configPath = p
	}
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

func (s *state) save() error {
	if !s.dirty {
		return nil
	}
	if s.configPath == "" {
		return errors.New("internal: configPath unset")
	}
	if err := config.Save(s.configPath, s.cfg); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *state) markDirty() { s.dirty = true }

func (s *state) baseURL() string {
	if v := os.Getenv("TABLO_BASE_URL"); v != "" {
		return v
	}
	return s.cfg.BaseURL
}

func (s *state) token() string {
	if v := os.Getenv("TABLO_TOKEN"); v != "" {
		return v
	}
	return s.session().AccessToken
}

// newClient builds an unauthenticated client, for login.
func (s *state) newClient() (*tablo.Client, error) {
	base := s.baseURL()
	if base == "" {
		return nil, errors.New("missing base_url (run `tablo config set --base-url ...`)")
	}
	return tablo.New(tablo.Options{
		BaseURL:   base,
		UserAgent: "tablo/" + version.Version,
		Logger:    s.log,
	})
}

// newAuthedClient builds a client carrying the stored (or env-provided)
// bearer token.
func (s *state) newAuthedClient() (*tablo.Client, error) {
	token := s.token()
	if token == "" {
		return nil, errors.New("not logged in (run `tablo login <email>`)")
	}
	if os.Getenv("TABLO_TOKEN") == "" && s.session().TokenLikelyExpired(time.Now()) {
		s.log.Warn("stored token looks expired; commands may fail until you log in again")
	}

	base := s.baseURL()
	if base == "" {
		return nil, errors.New("missing base_url (run `tablo config set --base-url ...`)")
	}
	return tablo.New(tablo.Options{
		BaseURL:     base,
		AccessToken: token,
		UserAgent:   "tablo/" + version.Version,
		Logger:      s.log,
	})
}

// restaurantID returns the tenant id of the logged-in session. Endpoints
// that are not session-scoped on the backend need it in the path.
func (s *state) restaurantID() (int64, error) {
	if id := s.session().RestaurantID; id != 0 {
		return id, nil
	}
	return 0, errors.New("no restaurant on session (run `tablo login <email>` again)")
}
