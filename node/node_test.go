package node

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/coschain/walletkeeper/common"
	"github.com/stretchr/testify/assert"
)

func testNodeConfig(dataDir string) Config {
	return Config{
		Name:              "walletd",
		DataDir:           dataDir,
		MinPasswordLength: 3,
		WalletCacheSize:   4,
		ScryptN:           1 << 12,
		ScryptP:           6,
		Node:              ConnectionConfig{URI: "127.0.0.1:8888"},
	}
}

type recordingService struct {
	started, stopped bool
	node             *Node
	stopErr          error
}

func (s *recordingService) Start(node *Node) error {
	s.started, s.node = true, node
	return nil
}

func (s *recordingService) Stop() error {
	s.stopped = true
	return s.stopErr
}

// Tests that an ephemeral node can be started, restarted and stopped.
func TestNodeLifeCycle(t *testing.T) {
	cfg := testNodeConfig("")
	stack, err := New(&cfg)
	if err != nil {
		t.Fatalf("failed to create node: %v", err)
	}
	// Ensure that a node can be successfully started, but only once
	if err := stack.Start(); err != nil {
		t.Fatalf("failed to start node: %v", err)
	}
	if err := stack.Start(); err != ErrNodeRunning {
		t.Fatalf("start failure mismatch: have %v, want %v ", err, ErrNodeRunning)
	}
	if err := stack.Restart(); err != nil {
		t.Fatalf("failed to restart node: %v", err)
	}
	if err := stack.Stop(); err != nil {
		t.Fatalf("failed to stop node: %v", err)
	}
	if err := stack.Stop(); err != ErrNodeStopped {
		t.Fatalf("stop failure mismatch: have %v, want %v ", err, ErrNodeStopped)
	}
	stack.Wait()
}

func TestNodeInvalidName(t *testing.T) {
	cfg := testNodeConfig("")
	cfg.Name = "a/b"
	_, err := New(&cfg)
	assert.Error(t, err)
}

func TestNodeRequiresInit(t *testing.T) {
	cfg := testNodeConfig(t.TempDir())
	stack, err := New(&cfg)
	assert.NoError(t, err)
	assert.True(t, os.IsNotExist(stack.Start()))
}

func TestNodeServices(t *testing.T) {
	myassert := assert.New(t)

	cfg := testNodeConfig("")
	stack, err := New(&cfg)
	myassert.NoError(err)

	svc := &recordingService{}
	myassert.NoError(stack.Register("recorder", func(ctx *ServiceContext) (Service, error) {
		myassert.Equal("walletd", ctx.Config().Name)
		return svc, nil
	}))
	myassert.NoError(stack.Start())
	myassert.True(svc.started)
	myassert.Equal(stack, svc.node)
	myassert.NotNil(svc.node.Account)

	running, err := stack.Service("recorder")
	myassert.NoError(err)
	myassert.Equal(svc, running)
	_, err = stack.Service("missing")
	myassert.Equal(ErrServiceUnknown, err)

	svc.stopErr = errors.New("boom")
	err = stack.Stop()
	myassert.True(svc.stopped)
	stopErr, ok := err.(*StopError)
	myassert.True(ok)
	myassert.Contains(stopErr.Services, "recorder")
}

func TestNodeDuplicateService(t *testing.T) {
	cfg := testNodeConfig("")
	stack, err := New(&cfg)
	assert.NoError(t, err)
	ctor := func(ctx *ServiceContext) (Service, error) { return &recordingService{}, nil }
	_ = stack.Register("dup", ctor)
	_ = stack.Register("dup", ctor)
	err = stack.Start()
	_, ok := err.(*DuplicateServiceError)
	assert.True(t, ok)
	assert.Nil(t, stack.Account)
}

// Tests that account state survives a restart of a persistent node.
func TestNodePersistentAccount(t *testing.T) {
	myassert := assert.New(t)
	ctx := context.Background()

	cfg := testNodeConfig(t.TempDir())
	myassert.NoError(os.MkdirAll(filepath.Join(cfg.DataDir, cfg.Name), 0700))
	stack, err := New(&cfg)
	myassert.NoError(err)
	myassert.NoError(stack.Start())

	myassert.NoError(stack.Account.Setup(ctx, "secret"))
	rt, err := stack.Wallets.Create(ctx, "main")
	myassert.NoError(err)
	stack.Account.Select(rt)
	address := rt.Address()
	myassert.Equal("main", stack.Account.CurrentWalletName())

	myassert.NoError(stack.Restart())
	// teardown detached and closed the active wallet
	_, err = rt.Seed()
	myassert.Error(err)
	myassert.False(stack.Account.IsLogined())
	myassert.True(common.IsRecoverable(stack.Account.Login(ctx, "wrong")))
	myassert.NoError(stack.Account.Login(ctx, "secret"))
	myassert.Equal("main", stack.Account.CurrentWalletName())
	myassert.Equal(address, stack.Account.CurrentWallet().Address())

	_, err = os.Stat(cfg.ResolvePath(datadirDeviceKey))
	myassert.NoError(err)
	myassert.NoError(stack.Stop())
}
