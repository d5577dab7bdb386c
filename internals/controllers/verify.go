package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turinhub/toolbox-sub001/internals/session"
)

type VerifyController struct {
	Verifier ChallengeVerifier
	Sessions *session.Manager
}

func NewVerifyController(verifier ChallengeVerifier, sessions *session.Manager) *VerifyController {
	return &VerifyController{
		Verifier: verifier,
		Sessions: sessions,
	}
}

type verifyReqBody struct {
	Token string `json:"token" binding:"required"`
}

// Verify exchanges a freshly solved challenge token for a verification
// credential. The token is single-use; a failed check is answered with 400
// and the user re-solves the challenge, the server never retries.
func (v *VerifyController) Verify(c *gin.Context) {
	var body verifyReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	if !v.Verifier.Verify(c.Request.Context(), body.Token, c.ClientIP()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Human verification failed. Please try again."})
		return
	}

	if err := v.Sessions.Issue(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification credential"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
