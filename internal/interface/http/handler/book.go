package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/biblioteca/internal/application/book"
	"github.com/xiebiao/biblioteca/internal/interface/http/dto"
	"github.com/xiebiao/biblioteca/internal/interface/http/middleware"
	"github.com/xiebiao/biblioteca/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	registerBookUseCase *appbook.RegisterBookUseCase
	getBookUseCase      *appbook.GetBookUseCase
	listBooksUseCase    *appbook.ListBooksUseCase
	updateBookUseCase   *appbook.UpdateBookUseCase
	deleteBookUseCase   *appbook.DeleteBookUseCase
	adjustStockUseCase  *appbook.AdjustStockUseCase
	importBookUseCase   *appbook.ImportBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	registerBookUseCase *appbook.RegisterBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	adjustStockUseCase *appbook.AdjustStockUseCase,
	importBookUseCase *appbook.ImportBookUseCase,
) *BookHandler {
	return &BookHandler{
		registerBookUseCase: registerBookUseCase,
		getBookUseCase:      getBookUseCase,
		listBooksUseCase:    listBooksUseCase,
		updateBookUseCase:   updateBookUseCase,
		deleteBookUseCase:   deleteBookUseCase,
		adjustStockUseCase:  adjustStockUseCase,
		importBookUseCase:   importBookUseCase,
	}
}

// RegisterBook 登记图书
// @Summary      登记图书
// @Description  管理员登记新书入馆藏,ISBN唯一
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDetail} "登记成功"
// @Failure      400 {object} response.Response "参数错误(如ISBN格式、价格非正)"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "作者或分类不存在"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) RegisterBook(c *gin.Context) {
	var req dto.RegisterBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 登记人取当前登录的管理员
	operatorID := middleware.MustGetUserID(c)

	result, err := h.registerBookUseCase.Execute(c.Request.Context(), appbook.RegisterBookRequest{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		Publisher:   req.Publisher,
		PublishedAt: req.PublishedAt,
		PageCount:   req.PageCount,
		Language:    req.Language,
		Price:       req.Price,
		Rating:      req.Rating,
		Stock:       req.Stock,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		CreatedBy:   &operatorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  按ID查询图书,公开接口
// @Tags         图书模块
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBookByISBN 按ISBN查询图书
// @Summary      按ISBN查询图书
// @Description  扫码查书场景,公开接口
// @Tags         图书模块
// @Produce      json
// @Param        isbn path string true "ISBN-13"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	if isbn == "" {
		response.ErrorWithCode(c, 40900, "参数错误: isbn不能为空")
		return
	}

	result, err := h.getBookUseCase.ExecuteByISBN(c.Request.Context(), isbn)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询,支持关键词搜索、按分类/作者/状态过滤、排序
// @Tags         图书模块
// @Produce      json
// @Param        page query int false "页码,默认1"
// @Param        page_size query int false "每页数量,默认20,最大100"
// @Param        keyword query string false "搜索标题/ISBN/描述"
// @Param        category_id query int false "按分类过滤"
// @Param        author_id query int false "按作者过滤"
// @Param        status query string false "按状态过滤(available/loaned/maintenance/lost)"
// @Param        available query bool false "只看可借"
// @Param        include_inactive query bool false "包含已下架图书(仅管理员)"
// @Param        sort_by query string false "排序(title_asc/price_asc/price_desc/rating_desc/published_at_asc/published_at_desc/created_at_desc)"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		AuthorID:   req.AuthorID,
		Status:     req.Status,
		Available:  req.Available,
		// 已下架图书只有管理员可见
		IncludeInactive: req.IncludeInactive && middleware.GetIsAdmin(c),
		SortBy:          req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  管理员更新图书信息,零值字段不更新
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新字段"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), id, appbook.UpdateBookRequest{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Publisher:   req.Publisher,
		Language:    req.Language,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Price:       req.Price,
		Rating:      req.Rating,
		Active:      req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  管理员删除图书,有在借记录时拒绝
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "有未归还的借阅"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// AdjustStock 调整库存
// @Summary      调整库存
// @Description  管理员入库/出库/盘点,库存扣到负数时归零;可同时设置维护/丢失状态
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.AdjustStockRequest true "库存增量与可选状态"
// @Success      200 {object} response.Response{data=appbook.AdjustStockResponse}
// @Failure      400 {object} response.Response "状态值非法"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id}/stock [post]
func (h *BookHandler) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.adjustStockUseCase.Execute(c.Request.Context(), appbook.AdjustStockRequest{
		BookID: id,
		Delta:  req.Delta,
		Status: req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ImportBook 按ISBN导入图书
// @Summary      按ISBN导入图书
// @Description  管理员从Google Books拉取元数据建档,作者不存在时自动创建
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ImportBookRequest true "ISBN与价格库存"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "ISBN未收录"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Failure      500 {object} response.Response "外部服务不可用"
// @Router       /books/import [post]
func (h *BookHandler) ImportBook(c *gin.Context) {
	var req dto.ImportBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	operatorID := middleware.MustGetUserID(c)

	result, err := h.importBookUseCase.Execute(c.Request.Context(), appbook.ImportBookRequest{
		ISBN:       req.ISBN,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		Stock:      req.Stock,
		CreatedBy:  &operatorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
