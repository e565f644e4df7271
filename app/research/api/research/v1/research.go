package v1

// StatusRequest 查询凭证状态
type StatusRequest struct{}

// Credential 凭证加载状态
type Credential struct {
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
}

// StatusReply 侧边栏状态
type StatusReply struct {
	Provider    string        `json:"provider"`
	Ready       bool          `json:"ready"`
	Credentials []*Credential `json:"credentials"`
}

// Article 检索到的文章
type Article struct {
	Title       string `json:"title"`
	Url         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// RunInfo 各接口共有的运行信息
type RunInfo struct {
	RunId        string     `json:"run_id"`
	Company      string     `json:"company"`
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	Articles     []*Article `json:"articles"`
	Missing      []string   `json:"missing,omitempty"`
	Scraped      int32      `json:"scraped"`
	Failed       int32      `json:"failed"`
	CorpusLength int32      `json:"corpus_length"`
}

// AnalyzeRequest 摘要分析请求
type AnalyzeRequest struct {
	Company string `json:"company"`
}

// AnalyzeReply 摘要分析结果
type AnalyzeReply struct {
	RunInfo
	Report string `json:"report"`
}

// KnowledgeRequest 知识库准备请求
type KnowledgeRequest struct {
	Company string `json:"company"`
}

// KnowledgeReply 知识库准备结果
type KnowledgeReply struct {
	RunInfo
	Chunks int32 `json:"chunks"`
}

// AskRequest 问答请求
type AskRequest struct {
	Company  string `json:"company"`
	Question string `json:"question"`
}

// Source 回答引用的片段
type Source struct {
	Index   int32   `json:"index"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview"`
}

// AskReply 问答结果
type AskReply struct {
	RunInfo
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Sources  []*Source `json:"sources"`
}
