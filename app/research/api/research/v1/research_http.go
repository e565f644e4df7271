package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
	binding "github.com/go-kratos/kratos/v2/transport/http/binding"
)

// This is a compile-time assertion to ensure that this generated file
// is compatible with the kratos package it is being compiled against.
var _ = new(context.Context)
var _ = binding.EncodeURL

const _ = http.SupportPackageIsVersion1

const OperationResearchStatus = "/api.research.v1.Research/Status"
const OperationResearchAnalyze = "/api.research.v1.Research/Analyze"
const OperationResearchKnowledge = "/api.research.v1.Research/Knowledge"
const OperationResearchAsk = "/api.research.v1.Research/Ask"

type ResearchHTTPServer interface {
	Status(context.Context, *StatusRequest) (*StatusReply, error)
	Analyze(context.Context, *AnalyzeRequest) (*AnalyzeReply, error)
	Knowledge(context.Context, *KnowledgeRequest) (*KnowledgeReply, error)
	Ask(context.Context, *AskRequest) (*AskReply, error)
}

func RegisterResearchHTTPServer(s *http.Server, srv ResearchHTTPServer) {
	r := s.Route("/")
	r.GET("/api/v1/status", _Research_Status0_HTTP_Handler(srv))
	r.POST("/api/v1/analyze", _Research_Analyze0_HTTP_Handler(srv))
	r.POST("/api/v1/knowledge", _Research_Knowledge0_HTTP_Handler(srv))
	r.POST("/api/v1/ask", _Research_Ask0_HTTP_Handler(srv))
}

func _Research_Status0_HTTP_Handler(srv ResearchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in StatusRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationResearchStatus)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Status(ctx, req.(*StatusRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*StatusReply)
		return ctx.Result(200, reply)
	}
}

func _Research_Analyze0_HTTP_Handler(srv ResearchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AnalyzeRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationResearchAnalyze)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Analyze(ctx, req.(*AnalyzeRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*AnalyzeReply)
		return ctx.Result(200, reply)
	}
}

func _Research_Knowledge0_HTTP_Handler(srv ResearchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in KnowledgeRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationResearchKnowledge)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Knowledge(ctx, req.(*KnowledgeRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*KnowledgeReply)
		return ctx.Result(200, reply)
	}
}

func _Research_Ask0_HTTP_Handler(srv ResearchHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AskRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationResearchAsk)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Ask(ctx, req.(*AskRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*AskReply)
		return ctx.Result(200, reply)
	}
}
