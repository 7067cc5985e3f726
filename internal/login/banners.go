package login

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Banners is the table of host screen texts the controller matches to detect
// application states. The host application reports everything through fixed
// status strings, so this coupling is inherently fragile: the table is kept
// configurable instead of hard-coded, and is not assumed exhaustive.
type Banners struct {
	// LoginScreen marks the login screen (application/user fields visible)
	LoginScreen []string `yaml:"login_screen"`

	// PasswordChangeScreen marks the password-change screen
	PasswordChangeScreen []string `yaml:"password_change_screen"`

	// LoginSucceeded marks a completed login
	LoginSucceeded []string `yaml:"login_succeeded"`

	// PasswordIncorrect marks a rejected password
	PasswordIncorrect []string `yaml:"password_incorrect"`

	// PasswordExpired marks an expired password demanding a change
	PasswordExpired []string `yaml:"password_expired"`
}

// DefaultBanners returns the banner texts of the stock host application
func DefaultBanners() Banners {
	return Banners{
		LoginScreen:          []string{"Aplicacao", "Usuario"},
		PasswordChangeScreen: []string{"Troca de senha"},
		LoginSucceeded:       []string{"Login efetuado com sucesso"},
		PasswordIncorrect:    []string{"Senha incorreta"},
		PasswordExpired:      []string{"Senha expirada"},
	}
}

// LoadBanners reads a banner table from a yaml file, filling unset sections
// from the defaults so partial overrides stay usable.
func LoadBanners(path string) (Banners, error) {
	banners := DefaultBanners()

	data, err := os.ReadFile(path)
	if err != nil {
		return banners, fmt.Errorf("failed to read banner table: %w", err)
	}

	var loaded Banners
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return banners, fmt.Errorf("failed to parse banner table: %w", err)
	}

	if len(loaded.LoginScreen) > 0 {
		banners.LoginScreen = loaded.LoginScreen
	}
	if len(loaded.PasswordChangeScreen) > 0 {
		banners.PasswordChangeScreen = loaded.PasswordChangeScreen
	}
	if len(loaded.LoginSucceeded) > 0 {
		banners.LoginSucceeded = loaded.LoginSucceeded
	}
	if len(loaded.PasswordIncorrect) > 0 {
		banners.PasswordIncorrect = loaded.PasswordIncorrect
	}
	if len(loaded.PasswordExpired) > 0 {
		banners.PasswordExpired = loaded.PasswordExpired
	}

	return banners, nil
}

// Save writes the banner table to a yaml file
func (b Banners) Save(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode banner table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write banner table: %w", err)
	}
	return nil
}
