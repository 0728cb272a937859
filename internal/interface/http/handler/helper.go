package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/biblioteca/pkg/response"
)

// parseIDParam 解析路径中的:id参数
// 解析失败时已写入错误响应,调用方直接return即可
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: id应为正整数")
		return 0, false
	}
	return uint(id), true
}
