package myhttp

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/coschain/walletkeeper/account"
	"github.com/coschain/walletkeeper/node"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var ServiceName = "httpapi"

const shutdownTimeout = 5 * time.Second

type myhttp struct {
	addr     string
	srv      *http.Server
	listener net.Listener
	log      *logrus.Logger
}

func NewMyHttp(ctx *node.ServiceContext, lg *logrus.Logger) (*myhttp, error) {
	return &myhttp{addr: ctx.Config().HTTPListen, log: lg}, nil
}

func (this *myhttp) Start(node *node.Node) error {
	l, err := net.Listen("tcp", this.addr)
	if err != nil {
		return err
	}
	this.listener = l
	this.srv = &http.Server{Handler: NewRouter(node.Account, this.log)}
	go func() {
		if err := this.srv.Serve(l); err != http.ErrServerClosed {
			this.log.Errorf("Serve(): %s", err)
		}
	}()
	this.log.WithField("addr", l.Addr().String()).Info("http api listening")
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (this *myhttp) Addr() string {
	if this.listener == nil {
		return ""
	}
	return this.listener.Addr().String()
}

func (this *myhttp) Stop() error {
	if this.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return this.srv.Shutdown(ctx)
}

// NewRouter exposes acc over JSON.
func NewRouter(acc *account.Account, lg *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h := &handlers{acc: acc, log: lg}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	acct := router.Group("/account")
	acct.GET("", h.status)
	acct.POST("/setup", h.setup)
	acct.POST("/login", h.login)
	acct.POST("/biologin", h.biometricLogin)
	acct.POST("/verify", h.verifyPassword)
	acct.POST("/password", h.changePassword)
	acct.GET("/settings", h.connectionSettings)
	acct.PUT("/settings", h.changeConnectionSettings)
	acct.PUT("/priority", h.setPriority)
	acct.PUT("/biometric", h.setBiometric)
	acct.PUT("/remembered", h.setRemembered)

	wallets := router.Group("/wallets")
	wallets.GET("", h.list)
	wallets.POST("", h.create)
	wallets.POST("/recover", h.recoverWallet)
	wallets.POST("/:name/load", h.load)
	wallets.POST("/:name/seed", h.seed)
	wallets.DELETE("/:name", h.remove)

	current := router.Group("/wallet")
	current.GET("", h.current)
	current.DELETE("", h.detach)
	current.GET("/transactions", h.transactions)
	current.POST("/transactions", h.createTransaction)
	current.POST("/fee", h.fee)

	return router
}
