package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appauthor "github.com/xiebiao/biblioteca/internal/application/author"
	"github.com/xiebiao/biblioteca/internal/interface/http/dto"
	"github.com/xiebiao/biblioteca/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	manageAuthorUseCase *appauthor.ManageAuthorUseCase
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(manageAuthorUseCase *appauthor.ManageAuthorUseCase) *AuthorHandler {
	return &AuthorHandler{
		manageAuthorUseCase: manageAuthorUseCase,
	}
}

// toAuthorRequest 把HTTP请求转换为应用层请求,解析出生日期
func toAuthorRequest(c *gin.Context, req dto.AuthorRequest) (appauthor.AuthorRequest, bool) {
	var birthdate *time.Time
	if req.Birthdate != "" {
		t, err := time.Parse("2006-01-02", req.Birthdate)
		if err != nil {
			response.ErrorWithCode(c, 40900, "参数错误: birthdate格式应为YYYY-MM-DD")
			return appauthor.AuthorRequest{}, false
		}
		birthdate = &t
	}
	return appauthor.AuthorRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthdate: birthdate,
		Country:   req.Country,
		Biography: req.Biography,
		PhotoURL:  req.PhotoURL,
	}, true
}

// CreateAuthor 创建作者
// @Summary      创建作者
// @Description  管理员创建作者,姓名组合唯一
// @Tags         作者模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=appauthor.AuthorResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "作者已存在"
// @Router       /authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	appReq, ok := toAuthorRequest(c, req)
	if !ok {
		return
	}

	result, err := h.manageAuthorUseCase.Create(c.Request.Context(), appReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateAuthor 更新作者
// @Summary      更新作者
// @Tags         作者模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Param        request body dto.AuthorRequest true "作者信息"
// @Success      200 {object} response.Response{data=appauthor.AuthorResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /authors/{id} [put]
func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	appReq, ok := toAuthorRequest(c, req)
	if !ok {
		return
	}

	result, err := h.manageAuthorUseCase.Update(c.Request.Context(), id, appReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteAuthor 删除作者
// @Summary      删除作者
// @Description  名下还有图书时拒绝删除
// @Tags         作者模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "作者名下仍有图书"
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /authors/{id} [delete]
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.manageAuthorUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetAuthor 作者详情
// @Summary      作者详情
// @Tags         作者模块
// @Produce      json
// @Param        id path int true "作者ID"
// @Success      200 {object} response.Response{data=appauthor.AuthorResponse}
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /authors/{id} [get]
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.manageAuthorUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAuthors 作者列表
// @Summary      作者列表
// @Description  按姓氏排序,支持按姓名/国别搜索
// @Tags         作者模块
// @Produce      json
// @Param        page query int false "页码,默认1"
// @Param        page_size query int false "每页数量,默认20"
// @Param        keyword query string false "按姓名或国别搜索"
// @Success      200 {object} response.Response{data=appauthor.ListAuthorsResponse}
// @Router       /authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	var req dto.ListCatalogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageAuthorUseCase.List(c.Request.Context(), req.Page, req.PageSize, req.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
