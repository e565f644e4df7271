package server

import (
	"embed"
	"html/template"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	v1 "github.com/iWorld-y/news_research/app/research/api/research/v1"
	"github.com/iWorld-y/news_research/app/research/internal/service"
	"github.com/iWorld-y/news_research/app/research/pkg/config"
)

//go:embed assets/*
var assets embed.FS

// DefaultCompany 页面输入框的默认公司名
const DefaultCompany = "NVIDIA"

var indexTpl = template.Must(template.ParseFS(assets, "assets/index.html"))

type indexData struct {
	Title          string
	DefaultCompany string
	Status         *v1.StatusReply
}

func NewHTTPServer(c *config.Config, s *service.ResearchService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Server.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.Server.HTTP.Addr))
	}
	if d := c.HTTPTimeout(); d > 0 {
		opts = append(opts, http.Timeout(d))
	}

	srv := http.NewServer(opts...)
	v1.RegisterResearchHTTPServer(srv, s)

	helper := log.NewHelper(logger)
	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/" {
			nethttp.NotFound(w, r)
			return
		}
		status, _ := s.Status(r.Context(), &v1.StatusRequest{})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTpl.Execute(w, indexData{
			Title:          "AI News Research Tool for Equity Analysts",
			DefaultCompany: DefaultCompany,
			Status:         status,
		}); err != nil {
			helper.Errorf("render index: %v", err)
		}
	})

	return srv
}
