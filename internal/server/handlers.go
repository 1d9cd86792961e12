package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identitydomain "github.com/courtside/rosterd/internal/identity/domain"
	provdomain "github.com/courtside/rosterd/internal/provisioning/domain"
	rosterdomain "github.com/courtside/rosterd/internal/roster/domain"
)

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.requireAuth())

	api.POST("/players/:id/credentials", s.handleAssignCredentials)
	api.POST("/staff", s.handleCreateStaff)
	api.POST("/invites", s.handleInvite)
	api.POST("/players/import", s.handleImportPlayer)
	api.DELETE("/players/:id", s.handleRemovePlayer)
	api.DELETE("/players/:id/membership", s.handleReleasePlayer)
	api.POST("/identities/:id/password", s.handleChangePassword)
}

func (s *Server) registerFallback() {
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{OK: false, Error: "Method not allowed"})
	})
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{OK: false, Error: "Not found"})
	})
}

type assignCredentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleAssignCredentials(c *gin.Context) {
	playerID, err := playerIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var body assignCredentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, errInvalidBody)
		return
	}

	result, err := s.svc.AssignCredentials(c.Request.Context(), callerFrom(c), provdomain.AssignCredentialsRequest{
		PlayerID: playerID,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"player_id":        result.PlayerID.String(),
		"identity_id":      result.IdentityID,
		"identity_created": result.IdentityCreated,
		"message":          result.Message,
	})
}

type createStaffBody struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	TeamIDs     []string `json:"team_ids"`
}

func (s *Server) handleCreateStaff(c *gin.Context) {
	var body createStaffBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, errInvalidBody)
		return
	}

	teamIDs, err := parseTeamIDs(body.TeamIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.svc.CreateStaff(c.Request.Context(), callerFrom(c), provdomain.CreateStaffRequest{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Role:        body.Role,
		TeamIDs:     teamIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"identity_id":   result.IdentityID,
		"email":         result.Email,
		"role":          result.Role,
		"teams_granted": result.TeamsGranted,
	})
}

type inviteBody struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	TeamIDs     []string `json:"team_ids"`
	PlayerID    *string  `json:"player_id"`
	RedirectTo  string   `json:"redirect_to"`
	SendEmail   *bool    `json:"send_email"`
}

func (s *Server) handleInvite(c *gin.Context) {
	var body inviteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, errInvalidBody)
		return
	}

	teamIDs, err := parseTeamIDs(body.TeamIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var playerID *snowflake.ID
	if body.PlayerID != nil {
		parsed, err := snowflake.ParseString(*body.PlayerID)
		if err != nil {
			AbortWithError(c, rosterdomain.ErrPlayerNotFound)
			return
		}
		playerID = &parsed
	}

	result, err := s.svc.Invite(c.Request.Context(), callerFrom(c), provdomain.InviteRequest{
		Email:       body.Email,
		DisplayName: body.DisplayName,
		Role:        body.Role,
		TeamIDs:     teamIDs,
		PlayerID:    playerID,
		RedirectTo:  body.RedirectTo,
		SendEmail:   body.SendEmail,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	response := gin.H{
		"ok":               true,
		"email_sent":       result.EmailSent,
		"link_kind":        result.LinkKind,
		"identity_created": result.IdentityCreated,
	}
	if result.Link != "" {
		response["link"] = result.Link
	}
	if result.Message != "" {
		response["message"] = result.Message
	}
	c.JSON(http.StatusOK, response)
}

type importPlayerBody struct {
	TeamID       string  `json:"team_id"`
	FullName     string  `json:"full_name"`
	JerseyNumber *int    `json:"jersey_number"`
	Email        *string `json:"email"`
	IdentityID   *string `json:"identity_id"`
}

func (s *Server) handleImportPlayer(c *gin.Context) {
	var body importPlayerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, errInvalidBody)
		return
	}

	teamID, err := snowflake.ParseString(body.TeamID)
	if err != nil {
		AbortWithError(c, rosterdomain.ErrTeamNotFound)
		return
	}

	var identityID *uuid.UUID
	if body.IdentityID != nil {
		parsed, err := uuid.Parse(*body.IdentityID)
		if err != nil {
			AbortWithError(c, identitydomain.ErrNotFound)
			return
		}
		identityID = &parsed
	}

	result, err := s.svc.ImportPlayer(c.Request.Context(), callerFrom(c), provdomain.ImportPlayerRequest{
		TeamID:       teamID,
		FullName:     body.FullName,
		JerseyNumber: body.JerseyNumber,
		Email:        body.Email,
		IdentityID:   identityID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"player": result.Player,
	})
}

func (s *Server) handleRemovePlayer(c *gin.Context) {
	playerID, err := playerIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.svc.RemovePlayer(c.Request.Context(), callerFrom(c), provdomain.RemovePlayerRequest{
		PlayerID: playerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"player_id":        result.PlayerID.String(),
		"identity_removed": result.IdentityRemoved,
	})
}

func (s *Server) handleReleasePlayer(c *gin.Context) {
	playerID, err := playerIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.svc.ReleasePlayer(c.Request.Context(), callerFrom(c), provdomain.RemovePlayerRequest{
		PlayerID: playerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"player_id":     result.PlayerID.String(),
		"grant_revoked": result.GrantRevoked,
	})
}

type changePasswordBody struct {
	NewPassword string `json:"new_password"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	identityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		AbortWithError(c, identitydomain.ErrNotFound)
		return
	}

	var body changePasswordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, errInvalidBody)
		return
	}

	err = s.svc.ChangePassword(c.Request.Context(), callerFrom(c), provdomain.ChangePasswordRequest{
		IdentityID:  identityID,
		NewPassword: body.NewPassword,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "Password updated successfully",
	})
}

func playerIDParam(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		return 0, rosterdomain.ErrPlayerNotFound
	}
	return id, nil
}

func parseTeamIDs(raw []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(raw))
	for _, value := range raw {
		id, err := snowflake.ParseString(value)
		if err != nil {
			return nil, rosterdomain.ErrTeamNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}
