package account

import (
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ConnectionSettings locate the node the wallets talk to.
type ConnectionSettings struct {
	URI      string `json:"uri"`
	Login    string `json:"login,omitempty"`
	Password string `json:"password,omitempty"`
	UseTLS   bool   `json:"use_tls"`
}

func (s ConnectionSettings) Validate() error {
	if strings.TrimSpace(s.URI) == "" {
		return errors.New("empty node uri")
	}
	if _, _, err := net.SplitHostPort(s.URI); err != nil {
		return errors.WithMessage(err, "node uri must be host:port")
	}
	if _, err := strconv.ParseUint(s.port(), 10, 16); err != nil {
		return errors.Errorf("invalid port in %q", s.URI)
	}
	return nil
}

func (s ConnectionSettings) Host() string {
	host, _, _ := net.SplitHostPort(s.URI)
	return host
}

func (s ConnectionSettings) port() string {
	_, port, _ := net.SplitHostPort(s.URI)
	return port
}

func (s ConnectionSettings) Port() int {
	port, _ := strconv.Atoi(s.port())
	return port
}

// PasswordPolicy is the rule a new password must satisfy.
type PasswordPolicy struct {
	MinLength int
}

const DefaultMinPasswordLength = 6

func (p PasswordPolicy) Check(password string) error {
	if password == "" {
		return errors.New("empty password")
	}
	min := p.MinLength
	if min <= 0 {
		min = DefaultMinPasswordLength
	}
	if len([]rune(password)) < min {
		return errors.Errorf("password shorter than %d characters", min)
	}
	return nil
}
