package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	pb "github.com/iWorld-y/news_research/app/research/api/research/v1"
	"github.com/iWorld-y/news_research/app/research/internal/usecase"
)

// 输入长度上限，超出视为非法请求
const (
	maxCompanyLen  = 200
	maxQuestionLen = 1000
)

// ResearchService 把研究流程暴露为 HTTP 接口
type ResearchService struct {
	uc  *usecase.ResearchUseCase
	log *log.Helper
}

func NewResearchService(uc *usecase.ResearchUseCase, logger log.Logger) *ResearchService {
	return &ResearchService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *ResearchService) Status(ctx context.Context, req *pb.StatusRequest) (*pb.StatusReply, error) {
	st := s.uc.Status()
	reply := &pb.StatusReply{
		Provider:    st.Provider,
		Ready:       st.Ready,
		Credentials: make([]*pb.Credential, 0, len(st.Credentials)),
	}
	for _, c := range st.Credentials {
		reply.Credentials = append(reply.Credentials, &pb.Credential{Name: c.Name, Loaded: c.Loaded})
	}
	return reply, nil
}

func (s *ResearchService) Analyze(ctx context.Context, req *pb.AnalyzeRequest) (*pb.AnalyzeReply, error) {
	if err := validateCompany(req.Company); err != nil {
		return nil, err
	}
	out := s.uc.Analyze(ctx, req.Company)
	s.log.WithContext(ctx).Infof("analyze run=%s company=%q status=%s", out.RunID, out.Company, out.Status)
	return &pb.AnalyzeReply{
		RunInfo: runInfo(&out.Outcome),
		Report:  out.Report,
	}, nil
}

func (s *ResearchService) Knowledge(ctx context.Context, req *pb.KnowledgeRequest) (*pb.KnowledgeReply, error) {
	if err := validateCompany(req.Company); err != nil {
		return nil, err
	}
	out := s.uc.Prepare(ctx, req.Company)
	s.log.WithContext(ctx).Infof("knowledge run=%s company=%q status=%s chunks=%d", out.RunID, out.Company, out.Status, out.Chunks)
	return &pb.KnowledgeReply{
		RunInfo: runInfo(&out.Outcome),
		Chunks:  int32(out.Chunks),
	}, nil
}

func (s *ResearchService) Ask(ctx context.Context, req *pb.AskRequest) (*pb.AskReply, error) {
	if err := validateCompany(req.Company); err != nil {
		return nil, err
	}
	if len([]rune(req.Question)) > maxQuestionLen {
		return nil, errors.BadRequest("QUESTION_TOO_LONG", fmt.Sprintf("question must be at most %d characters", maxQuestionLen))
	}
	out := s.uc.Ask(ctx, req.Company, req.Question)
	s.log.WithContext(ctx).Infof("ask run=%s company=%q status=%s", out.RunID, out.Company, out.Status)

	sources := make([]*pb.Source, 0, len(out.Sources))
	for _, src := range out.Sources {
		sources = append(sources, &pb.Source{
			Index:   int32(src.Index),
			Score:   src.Score,
			Preview: src.Preview,
		})
	}
	return &pb.AskReply{
		RunInfo:  runInfo(&out.Outcome),
		Question: out.Question,
		Answer:   out.Answer,
		Sources:  sources,
	}, nil
}

func validateCompany(company string) error {
	if len([]rune(company)) > maxCompanyLen {
		return errors.BadRequest("COMPANY_TOO_LONG", fmt.Sprintf("company name must be at most %d characters", maxCompanyLen))
	}
	return nil
}

func runInfo(o *usecase.Outcome) pb.RunInfo {
	articles := make([]*pb.Article, 0, len(o.Articles))
	for _, a := range o.Articles {
		art := &pb.Article{Title: a.Title, Url: a.URL, Source: a.Source}
		if !a.PublishedAt.IsZero() {
			art.PublishedAt = a.PublishedAt.Format(time.RFC3339)
		}
		articles = append(articles, art)
	}
	return pb.RunInfo{
		RunId:        o.RunID,
		Company:      o.Company,
		Status:       string(o.Status),
		Message:      o.Message,
		Articles:     articles,
		Missing:      o.Missing,
		Scraped:      int32(o.Scraped),
		Failed:       int32(o.Failed),
		CorpusLength: int32(o.CorpusLength),
	}
}
