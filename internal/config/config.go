package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/Another0Noob/tachibk/internal/anilist"
)

// LoadAuth reads the OAuth client credentials from the [anilist] section of
// an ini file. redirect_url falls back to the pin page when unset.
func LoadAuth(path string) (anilist.AuthForm, error) {
	var a anilist.AuthForm
	cfg, err := ini.Load(path)
	if err != nil {
		return a, fmt.Errorf("load auth config %s: %w", path, err)
	}
	sec := cfg.Section("anilist")
	a.ClientID = sec.Key("client_id").String()
	a.ClientSecret = sec.Key("client_secret").String()
	a.RedirectURL = sec.Key("redirect_url").String()
	if a.RedirectURL == "" {
		a.RedirectURL = anilist.DefaultRedirectURL
	}
	return a, nil
}
