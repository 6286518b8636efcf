package handlers

import (
	"fmt"
	"net/http"

	"go-inventory-webapp/internal/models"
	"go-inventory-webapp/internal/repository"
	"go-inventory-webapp/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupRepo      *repository.GroupRepository
	membershipRepo *repository.MembershipRepository
	productService *services.ProductService
}

func NewGroupHandler(groupRepo *repository.GroupRepository, membershipRepo *repository.MembershipRepository, productService *services.ProductService) *GroupHandler {
	return &GroupHandler{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		productService: productService,
	}
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupRepo.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	group, err := h.groupRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid group data: %v", err)})
		return
	}

	group := &models.ProductGroup{Name: req.Name}
	if err := h.groupRepo.Create(group); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid group data: %v", err)})
		return
	}

	group, err := h.groupRepo.Rename(id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteGroup(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// GetGroupProducts lists the member products of a group.
func (h *GroupHandler) GetGroupProducts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	products, err := h.membershipRepo.ProductsInGroup(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}
