package myhttp

import (
	"net/http"

	"github.com/coschain/walletkeeper/account"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type handlers struct {
	acc *account.Account
	log *logrus.Logger
}

type passwordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	Password    string `json:"password"`
}

type walletRequest struct {
	Name     string `json:"name" binding:"required"`
	Mnemonic string `json:"mnemonic"`
	Password string `json:"password"`
}

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

type priorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

type transferRequest struct {
	To       string `json:"to" binding:"required"`
	Amount   uint64 `json:"amount"`
	Priority string `json:"priority"`
	Memo     string `json:"memo"`
}

type settingsResponse struct {
	account.ConnectionSettings
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (h *handlers) status(c *gin.Context) {
	hasPassword, err := h.acc.HasPassword()
	if err != nil {
		h.fail(c, err)
		return
	}
	biometric, err := h.acc.IsBiometricalAuthAllow()
	if err != nil {
		h.fail(c, err)
		return
	}
	remembered, err := h.acc.IsPasswordRemembered()
	if err != nil {
		h.fail(c, err)
		return
	}
	priority, err := h.acc.TransactionPriority()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"has_password": hasPassword,
		"logined":      h.acc.IsLogined(),
		"wallet":       h.acc.CurrentWalletName(),
		"biometric":    biometric,
		"remembered":   remembered,
		"priority":     priority.String(),
	})
}

func (h *handlers) setup(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.acc.Setup(c.Request.Context(), req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) login(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.acc.Login(c.Request.Context(), req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": h.acc.CurrentWalletName()})
}

func (h *handlers) biometricLogin(c *gin.Context) {
	if err := h.acc.BiometricAuthentication(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": h.acc.CurrentWalletName()})
}

func (h *handlers) verifyPassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.acc.VerifyPassword(c.Request.Context(), req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.acc.ChangePassword(c.Request.Context(), req.Password, req.OldPassword); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) connectionSettings(c *gin.Context) {
	s, err := h.acc.ConnectionSettings()
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := settingsResponse{ConnectionSettings: s, Host: s.Host(), Port: s.Port()}
	resp.Password = ""
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) changeConnectionSettings(c *gin.Context) {
	var req account.ConnectionSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.acc.ChangeConnectionSettings(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) setPriority(c *gin.Context) {
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	p, err := wallet.ParseTransactionPriority(req.Priority)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if err = h.acc.SetTransactionPriority(p); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) setBiometric(c *gin.Context) {
	h.toggle(c, h.acc.SetBiometricalAuthAllow)
}

func (h *handlers) setRemembered(c *gin.Context) {
	h.toggle(c, h.acc.SetPasswordRemembered)
}

func (h *handlers) toggle(c *gin.Context, set func(bool) error) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := set(req.Enabled); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) list(c *gin.Context) {
	list, err := h.acc.WalletsList(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if list == nil {
		list = account.WalletsList{}
	}
	c.JSON(http.StatusOK, gin.H{"wallets": list, "current": h.acc.CurrentWalletName()})
}

func (h *handlers) create(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if !h.mayActivate(c, req.Password) {
		return
	}
	rt, err := h.acc.Wallets().Create(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.acc.Select(rt)
	c.JSON(http.StatusCreated, gin.H{"name": rt.Name(), "address": rt.Address()})
}

func (h *handlers) recoverWallet(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if !h.mayActivate(c, req.Password) {
		return
	}
	rt, err := h.acc.Wallets().Recover(c.Request.Context(), req.Name, wallet.RecoveryMaterial{Mnemonic: req.Mnemonic})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.acc.Select(rt)
	c.JSON(http.StatusCreated, gin.H{"name": rt.Name(), "address": rt.Address()})
}

// load takes an optional password body. It is required while no wallet is active.
func (h *handlers) load(c *gin.Context) {
	var req passwordRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}
	if !h.mayActivate(c, req.Password) {
		return
	}
	rt, err := h.acc.Wallets().LoadWallet(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.acc.Select(rt)
	c.JSON(http.StatusOK, gin.H{"name": rt.Name(), "address": rt.Address()})
}

// mayActivate lets a request switch the active wallet. Without an active wallet the password is checked first.
func (h *handlers) mayActivate(c *gin.Context, password string) bool {
	if h.acc.IsLogined() {
		return true
	}
	if err := h.acc.VerifyPassword(c.Request.Context(), password); err != nil {
		h.fail(c, err)
		return false
	}
	return true
}

func (h *handlers) seed(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.acc.VerifyPassword(ctx, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	seed, err := h.acc.Wallets().FetchSeed(ctx, account.WalletIndex{Name: c.Param("name")})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seed": seed})
}

func (h *handlers) remove(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.acc.VerifyPassword(ctx, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.acc.Wallets().RemoveWallet(ctx, account.WalletIndex{Name: c.Param("name")}); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) current(c *gin.Context) {
	w := h.acc.CurrentWallet()
	balance, err := w.Balance(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":      w.Name(),
		"address":   w.Address(),
		"available": balance.Available,
		"locked":    balance.Locked,
		"total":     balance.Total().String(),
	})
}

func (h *handlers) detach(c *gin.Context) {
	h.acc.Select(nil)
	c.Status(http.StatusNoContent)
}

func (h *handlers) transactions(c *gin.Context) {
	txs, err := h.acc.CurrentWallet().Transactions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if txs == nil {
		txs = []wallet.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *handlers) priority(name string) (wallet.TransactionPriority, error) {
	if name == "" {
		return h.acc.TransactionPriority()
	}
	return wallet.ParseTransactionPriority(name)
}

func (h *handlers) fee(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	p, err := h.priority(req.Priority)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	fee, err := h.acc.Wallets().EstimatedFee(c.Request.Context(), wallet.FeeParams{
		Priority: p,
		Amount:   wallet.Amount(req.Amount),
		To:       req.To,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee": fee, "display": fee.String(), "priority": p.String()})
}

func (h *handlers) createTransaction(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	p, err := h.priority(req.Priority)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	tx, err := h.acc.CurrentWallet().CreateTransaction(c.Request.Context(), wallet.TransactionRequest{
		To:       req.To,
		Amount:   wallet.Amount(req.Amount),
		Priority: p,
		Memo:     req.Memo,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}
