package knowledge

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// FileSource JSON文件知识库后端
type FileSource struct {
	path     string
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFileSource 创建文件后端
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.L()
	}
	return &FileSource{
		path:     path,
		validate: validator.New(),
		logger:   logger,
	}
}

// Load 读取并校验知识库文件
// 单条记录非法只跳过该条并告警；文件缺失或JSON损坏返回错误，
// 由引擎决定退化策略
func (s *FileSource) Load() (*KnowledgeBase, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file %s: %w", s.path, err)
	}

	var raw KnowledgeBase
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse knowledge file %s: %w", s.path, err)
	}

	kb := &KnowledgeBase{
		Categories: raw.Categories,
	}

	// 条目校验：必填字段缺失则跳过，重复ID保留先出现的一条
	seen := make(map[string]struct{}, len(raw.Entries))
	for i, entry := range raw.Entries {
		if err := s.validate.Struct(entry); err != nil {
			s.logger.Warn("跳过非法知识库条目",
				zap.Int("position", i),
				zap.String("id", entry.ID),
				zap.Error(err))
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			s.logger.Warn("跳过重复ID的知识库条目", zap.String("id", entry.ID))
			continue
		}
		seen[entry.ID] = struct{}{}
		kb.Entries = append(kb.Entries, entry)
	}

	for i, qr := range raw.QuickReplies {
		if err := s.validate.Struct(qr); err != nil {
			s.logger.Warn("跳过非法快捷回复",
				zap.Int("position", i),
				zap.String("id", qr.ID),
				zap.Error(err))
			continue
		}
		kb.QuickReplies = append(kb.QuickReplies, qr)
	}

	return kb, nil
}
