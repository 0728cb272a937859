package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	apploan "github.com/xiebiao/biblioteca/internal/application/loan"
	"github.com/xiebiao/biblioteca/internal/interface/http/dto"
	"github.com/xiebiao/biblioteca/internal/interface/http/middleware"
	"github.com/xiebiao/biblioteca/pkg/response"
)

// LoanHandler 借阅HTTP处理器
type LoanHandler struct {
	createLoanUseCase *apploan.CreateLoanUseCase
	returnLoanUseCase *apploan.ReturnLoanUseCase
	markLostUseCase   *apploan.MarkLostUseCase
	listLoansUseCase  *apploan.ListLoansUseCase
}

// NewLoanHandler 创建借阅处理器
func NewLoanHandler(
	createLoanUseCase *apploan.CreateLoanUseCase,
	returnLoanUseCase *apploan.ReturnLoanUseCase,
	markLostUseCase *apploan.MarkLostUseCase,
	listLoansUseCase *apploan.ListLoansUseCase,
) *LoanHandler {
	return &LoanHandler{
		createLoanUseCase: createLoanUseCase,
		returnLoanUseCase: returnLoanUseCase,
		markLostUseCase:   markLostUseCase,
		listLoansUseCase:  listLoansUseCase,
	}
}

// CreateLoan 借书
// @Summary      借书
// @Description  登录用户借阅图书,使用悲观锁防止超借:最后一本被并发借阅时只有一人成功
// @Tags         借阅模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateLoanRequest true "借阅信息"
// @Success      200 {object} response.Response{data=apploan.CreateLoanResponse} "借阅成功"
// @Failure      400 {object} response.Response "图书不可借或应还时间非法"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /loans [post]
func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	var dueAt *time.Time
	if req.DueAt != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", req.DueAt, time.Local)
		if err != nil {
			response.ErrorWithCode(c, 40900, "参数错误: due_at格式应为YYYY-MM-DD HH:MM:SS")
			return
		}
		dueAt = &t
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.createLoanUseCase.Execute(c.Request.Context(), apploan.CreateLoanRequest{
		UserID: userID,
		BookID: req.BookID,
		DueAt:  dueAt,
		Notes:  req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ReturnLoan 还书
// @Summary      还书
// @Description  归还借阅并恢复库存;只有借阅人本人或管理员可以操作,重复归还会被拒绝
// @Tags         借阅模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=apploan.ReturnLoanResponse} "归还成功,含是否逾期归还"
// @Failure      400 {object} response.Response "借阅已归还或已丢失"
// @Failure      403 {object} response.Response "不是本人的借阅"
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /loans/{id}/return [post]
func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.returnLoanUseCase.Execute(c.Request.Context(), apploan.ReturnLoanRequest{
		LoanID:  id,
		UserID:  middleware.MustGetUserID(c),
		IsAdmin: middleware.GetIsAdmin(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MarkLost 标记丢失
// @Summary      标记丢失
// @Description  管理员把在借图书标记为丢失,库存不恢复
// @Tags         借阅模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "借阅ID"
// @Success      200 {object} response.Response{data=apploan.MarkLostResponse}
// @Failure      400 {object} response.Response "借阅已归还或已丢失"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "借阅不存在"
// @Router       /loans/{id}/lost [post]
func (h *LoanHandler) MarkLost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.markLostUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListLoans 借阅列表
// @Summary      借阅列表
// @Description  普通用户只能看自己的借阅;status=overdue返回逾期视图(在借且已过应还时间)
// @Tags         借阅模块
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码,默认1"
// @Param        page_size query int false "每页数量,默认20"
// @Param        user_id query int false "按借阅人过滤(仅管理员)"
// @Param        book_id query int false "按图书过滤"
// @Param        status query string false "按状态过滤(active/returned/lost/overdue)"
// @Param        sort_by query string false "排序(loaned_at_desc/due_at_asc)"
// @Success      200 {object} response.Response{data=apploan.ListLoansResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /loans [get]
func (h *LoanHandler) ListLoans(c *gin.Context) {
	var req dto.ListLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 普通用户强制只看自己的借阅,管理员才能按user_id过滤
	userID := middleware.MustGetUserID(c)
	if !middleware.GetIsAdmin(c) {
		req.UserID = &userID
	}

	result, err := h.listLoansUseCase.Execute(c.Request.Context(), apploan.ListLoansRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   req.UserID,
		BookID:   req.BookID,
		Status:   req.Status,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
