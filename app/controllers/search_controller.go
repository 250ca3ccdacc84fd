package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aihub/chatbot-go/internal/knowledge"
)

// SearchController 知识库检索控制器
type SearchController struct {
	BaseController
	engine *knowledge.Engine
}

// NewSearchController 创建检索控制器
func NewSearchController(engine *knowledge.Engine) *SearchController {
	return &SearchController{engine: engine}
}

// Search 检索知识库，返回按相关度排序的结果
func (c *SearchController) Search() {
	query := c.GetString("query")
	if query == "" {
		c.JSONError(http.StatusBadRequest, "查询参数不能为空")
		return
	}

	// limit缺省或非法时交给引擎的默认检索条数
	limit, _ := strconv.Atoi(c.GetString("limit"))
	results := c.engine.Search(query, limit)

	c.JSONSuccess(map[string]interface{}{
		"query":   query,
		"results": results,
		"total":   len(results),
	})
}

// answerRequest 智能回答请求体
type answerRequest struct {
	Query     string `json:"query"`
	Threshold int    `json:"threshold"`
}

// Answer 智能回答：返回Found/Ambiguous/NotFound决策
func (c *SearchController) Answer() {
	var req answerRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "请求体格式错误")
		return
	}
	if req.Query == "" {
		c.JSONError(http.StatusBadRequest, "query不能为空")
		return
	}

	decision := c.engine.SmartAnswer(req.Query, req.Threshold)
	c.JSONSuccess(decision)
}
