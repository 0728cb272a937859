package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/biblioteca/internal/application/category"
	"github.com/xiebiao/biblioteca/internal/interface/http/dto"
	"github.com/xiebiao/biblioteca/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	manageCategoryUseCase *appcategory.ManageCategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(manageCategoryUseCase *appcategory.ManageCategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		manageCategoryUseCase: manageCategoryUseCase,
	}
}

// CreateCategory 创建分类
// @Summary      创建分类
// @Description  管理员创建图书分类,名称唯一
// @Tags         分类模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "分类名已存在"
// @Router       /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageCategoryUseCase.Create(c.Request.Context(), appcategory.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateCategory 更新分类
// @Summary      更新分类
// @Tags         分类模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.CategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageCategoryUseCase.Update(c.Request.Context(), id, appcategory.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteCategory 删除分类
// @Summary      删除分类
// @Description  删除后该分类下的图书变为未分类
// @Tags         分类模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.manageCategoryUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetCategory 分类详情
// @Summary      分类详情
// @Tags         分类模块
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.manageCategoryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListCategories 分类列表
// @Summary      分类列表
// @Description  按名称排序,支持关键词搜索
// @Tags         分类模块
// @Produce      json
// @Param        page query int false "页码,默认1"
// @Param        page_size query int false "每页数量,默认20"
// @Param        keyword query string false "按名称搜索"
// @Success      200 {object} response.Response{data=appcategory.ListCategoriesResponse}
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var req dto.ListCatalogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageCategoryUseCase.List(c.Request.Context(), req.Page, req.PageSize, req.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
