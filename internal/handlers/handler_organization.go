package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/gin-gonic/gin"
)

// organizationHandler handles HTTP requests related to organizations and their members.
type organizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
	links               *links.Builder
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade, linkBuilder *links.Builder) *organizationHandler {
	return &organizationHandler{
		organizationService: os,
		links:               linkBuilder,
	}
}

// registerOrganizationRoutes registers organization routes. They act on memberships, not on
// a tenant scope, so no organization header is needed.
func registerOrganizationRoutes(rg *gin.RouterGroup, organizationService portssvc.OrganizationSvcFacade, linkBuilder *links.Builder) {
	h := newOrganizationHandler(organizationService, linkBuilder)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
		orgs.POST("/:id/members", h.addMember)
	}
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates an organization owned by the caller.
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	userID, logger, ok := requestUser(c)
	if !ok {
		return
	}
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	org, err := h.organizationService.CreateOrganization(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, logger, err, "create organization")
		return
	}
	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// listOrganizations godoc
// @Summary List my organizations
// @Description Lists the organizations the caller is a member of.
// @Tags organizations
// @Produce  json
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	userID, logger, ok := requestUser(c)
	if !ok {
		return
	}
	orgs, err := h.organizationService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list organizations")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// addMember godoc
// @Summary Add a member
// @Description Adds an existing business user to the organization. OWNER or ADMIN only.
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   id path string true "Organization ID"
// @Param   member body dto.AddMemberRequest true "Member details"
// @Success 201 {object} dto.MembershipResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /organizations/{id}/members [post]
func (h *organizationHandler) addMember(c *gin.Context) {
	userID, logger, ok := requestUser(c)
	if !ok {
		return
	}
	orgID := c.Param("id")
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	membership, err := h.organizationService.AddMember(c.Request.Context(), userID, orgID, req.Email, req.Role)
	if err != nil {
		respondError(c, logger, err, "add member")
		return
	}
	logger.Info("Member added", slog.String("organization_id", orgID), slog.String("member_user_id", membership.UserID))
	c.JSON(http.StatusCreated, dto.MembershipResponse{
		OrganizationID: membership.OrganizationID,
		UserID:         membership.UserID,
		Role:           membership.Role,
		JoinedAt:       membership.JoinedAt,
		InvitationURL:  h.links.InvitationURL(membership.OrganizationID),
	})
}
