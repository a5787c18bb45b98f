package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/coschain/cobra"
	"github.com/coschain/walletkeeper/account"
	"github.com/coschain/walletkeeper/cmd/wallet-cli/commands/utils/mock"
	"github.com/coschain/walletkeeper/node"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type shell struct {
	t      *testing.T
	acc    *account.Account
	reader *mock_utils.MockPasswordReader
}

func newShell(t *testing.T) *shell {
	cfg := node.Config{
		Name:              "wallet-cli",
		MinPasswordLength: 3,
		WalletCacheSize:   4,
		ScryptN:           1 << 12,
		ScryptP:           6,
		Node:              node.ConnectionConfig{URI: "127.0.0.1:8888"},
	}
	n, err := node.New(&cfg)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	t.Cleanup(func() { _ = n.Stop() })

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &shell{t: t, acc: n.Account, reader: mock_utils.NewMockPasswordReader(ctrl)}
}

// passwords queues the answers to the next password prompts.
func (s *shell) passwords(answers ...string) {
	var prev *gomock.Call
	for _, a := range answers {
		call := s.reader.EXPECT().ReadPassword(gomock.Any()).Return([]byte(a), nil)
		if prev != nil {
			call.After(prev)
		}
		prev = call
	}
}

func (s *shell) run(ctor func() *cobra.Command, args ...string) string {
	cmd := ctor()
	cmd.SetContext(AccountContextKey, s.acc)
	cmd.SetContext(ReaderContextKey, s.reader)
	var buf bytes.Buffer
	cmd.SetOutput(&buf)
	cmd.SetArgs(args)
	_, err := cmd.ExecuteC()
	assert.NoError(s.t, err, cmd)
	return buf.String()
}

func TestSetupAndLogin(t *testing.T) {
	myassert := assert.New(t)
	s := newShell(t)

	s.passwords("secret", "other")
	myassert.Contains(s.run(SetupCmd), "passwords do not match")

	s.passwords("ab", "ab")
	myassert.Contains(s.run(SetupCmd), "invalid input")

	s.passwords("secret", "secret")
	myassert.Contains(s.run(SetupCmd), "password set")

	myassert.Contains(s.run(StatusCmd), "not logged in")
	// with no wallet active, creating one asks for the password
	s.passwords("wrong")
	myassert.Contains(s.run(CreateCmd, "main"), "authentication failed")
	myassert.Contains(s.run(ListCmd), "no wallets")
	s.passwords("secret")
	myassert.Contains(s.run(CreateCmd, "main"), "wallet main created")

	s.passwords("wrong")
	myassert.Contains(s.run(LoginCmd), "authentication failed")
	s.passwords("secret")
	myassert.Contains(s.run(LoginCmd), "logged in, wallet main")
	myassert.Contains(s.run(StatusCmd), "wallet: main")

	s.passwords("secret", "better")
	myassert.Contains(s.run(PasswdCmd), "password changed")
	s.passwords("secret")
	myassert.Contains(s.run(LoginCmd), "authentication failed")
	s.passwords("better")
	myassert.Contains(s.run(LoginCmd), "logged in")
}

func TestBioLogin(t *testing.T) {
	myassert := assert.New(t)
	s := newShell(t)
	s.passwords("secret", "secret")
	s.run(SetupCmd)

	s.passwords("secret")
	myassert.Contains(s.run(CreateCmd, "main"), "created")
	myassert.Contains(s.run(BioLoginCmd), "authentication failed")
	myassert.Contains(s.run(SettingsCmd, "--biometric=true"), "biometric: true")
	myassert.Contains(s.run(BioLoginCmd), "logged in, wallet main")
}

func TestWalletCommands(t *testing.T) {
	myassert := assert.New(t)
	s := newShell(t)
	s.passwords("secret", "secret")
	s.run(SetupCmd)

	myassert.Contains(s.run(ListCmd), "no wallets")
	s.passwords("secret")
	myassert.Contains(s.run(RecoverCmd, append([]string{"old"}, strings.Fields(testMnemonic)...)...), "wallet old recovered")
	myassert.Contains(s.run(RecoverCmd, "bad", "not", "words"), "invalid recovery material")
	myassert.Contains(s.run(CreateCmd, "fresh"), "wallet fresh created")
	myassert.Contains(s.run(CreateCmd, "fresh"), "name already exists")

	listing := s.run(ListCmd)
	myassert.True(strings.Index(listing, "old") < strings.Index(listing, "fresh"))
	myassert.Contains(listing, "* fresh")
	myassert.Contains(listing, "recovered")

	myassert.Contains(s.run(LoadCmd, "old"), "load wallet old success")
	myassert.Equal("old", s.acc.CurrentWalletName())
	myassert.Contains(s.run(LoadCmd, "ghost"), "wallet not found")

	s.passwords("secret")
	myassert.Contains(s.run(SeedCmd, "old"), testMnemonic)
	s.passwords("wrong")
	myassert.NotContains(s.run(SeedCmd, "old"), testMnemonic)

	// removal always asks for the password
	s.passwords("wrong")
	myassert.Contains(s.run(RemoveCmd, "old"), "authentication failed")
	myassert.Equal("old", s.acc.CurrentWalletName())
	myassert.Contains(s.run(ListCmd), "old")

	s.passwords("secret")
	myassert.Contains(s.run(RemoveCmd, "old"), "wallet old removed")
	myassert.False(s.acc.IsLogined())
	s.passwords("secret")
	myassert.Contains(s.run(RemoveCmd, "old"), "wallet not found")
	myassert.Contains(s.run(CloseCmd), "no active wallet")

	// with nothing active, load is a login
	s.passwords("wrong")
	myassert.Contains(s.run(LoadCmd, "fresh"), "authentication failed")
	myassert.False(s.acc.IsLogined())
	s.passwords("secret")
	myassert.Contains(s.run(LoadCmd, "fresh"), "load wallet fresh success")
	myassert.Equal("fresh", s.acc.CurrentWalletName())
}

func TestActiveWalletCommands(t *testing.T) {
	myassert := assert.New(t)
	s := newShell(t)

	myassert.Contains(s.run(BalanceCmd), "no active wallet")
	myassert.Contains(s.run(FeeCmd, "someone", "1"), "error: ")

	s.passwords("secret", "secret")
	s.run(SetupCmd)
	s.passwords("secret")
	s.run(CreateCmd, "main")
	myassert.Contains(s.run(FeeCmd, "someone", "1.5"), "fee (default)")
	myassert.Contains(s.run(FeeCmd, "someone", "1.5", "--priority", "fastest"), "fee (fastest)")
	myassert.Contains(s.run(FeeCmd, "someone", "1.1234567"), "more than 6 decimals")

	myassert.Contains(s.run(TransferCmd, "someone", "2", "thanks"), "2.000000 COS to someone")
	balance := s.run(BalanceCmd)
	myassert.Contains(balance, "available:")
	myassert.Contains(balance, "out 2.000000 COS")

	myassert.Contains(s.run(CloseCmd), "wallet main closed")
	myassert.False(s.acc.IsLogined())
}

func TestSettingsCommands(t *testing.T) {
	myassert := assert.New(t)
	s := newShell(t)

	out := s.run(SettingsCmd)
	myassert.Contains(out, "priority: default")
	myassert.Contains(out, "biometric: false")

	out = s.run(SettingsCmd, "--priority", "slow", "--remember=true")
	myassert.Contains(out, "priority: slow")
	myassert.Contains(out, "remember password: true")
	myassert.Contains(s.run(SettingsCmd, "--priority", "warp"), "unknown transaction priority")

	myassert.Contains(s.run(NodeCmd), "host: 127.0.0.1")
	myassert.Contains(s.run(NodeCmd, "no-port"), "invalid input")

	s.passwords("nodepass")
	out = s.run(NodeCmd, "node.example:9000", "--login", "alice", "--tls")
	myassert.Contains(out, "port: 9000")
	myassert.Contains(out, "login: alice")
	settings, err := s.acc.ConnectionSettings()
	myassert.NoError(err)
	myassert.Equal("nodepass", settings.Password)
	myassert.True(settings.UseTLS)
}
