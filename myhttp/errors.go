package myhttp

import (
	"net/http"

	"github.com/coschain/walletkeeper/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[common.ErrorKind]int{
	common.KindInvalidInput:            http.StatusBadRequest,
	common.KindAuthenticationFailed:    http.StatusUnauthorized,
	common.KindWalletNotFound:          http.StatusNotFound,
	common.KindNameAlreadyExists:       http.StatusConflict,
	common.KindInvalidRecoveryMaterial: http.StatusUnprocessableEntity,
	common.KindNoActiveWallet:          http.StatusConflict,
}

// StatusOf maps an error to the status code the API answers with.
func StatusOf(err error) int {
	if status, ok := kindStatus[common.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (h *handlers) fail(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		h.log.WithFields(logrus.Fields{"path": c.FullPath(), "error": err}).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"kind":  common.KindOf(err).String(),
		"error": err.Error(),
	})
}

func (h *handlers) badRequest(c *gin.Context, err error) {
	h.fail(c, common.NewError(common.KindInvalidInput, "http."+c.FullPath(), err))
}
