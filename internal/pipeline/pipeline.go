// Package pipeline sequences the generation operations against the backend.
//
// Every operation follows the same completion protocol: mark the kind
// in-flight, invoke the remote capability, then on any outcome refresh the
// cost ledger, update the content overlay, recompute the status line and clear
// the in-flight flag. Transport failures never propagate; they settle as
// failed results.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/overlay"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
)

// Inputs carries the caller-supplied data for one generation operation.
type Inputs struct {
	JobDescription string
	JobURL         string
	Resume         types.ResumeData
	UserPrompt     string
}

// AllResults bundles the outcomes of GenerateAll.
type AllResults struct {
	Analysis       types.Result[types.JobAnalysis] `json:"analysis"`
	TailoredResume types.Result[types.ResumeData]  `json:"tailored_resume"`
	CoverLetter    types.Result[string]            `json:"cover_letter"`
	Suggestions    types.Result[string]            `json:"suggestions"`
}

// Pipeline orchestrates generation calls for one session.
type Pipeline struct {
	sess   *session.Session
	client backend.Client
	store  *db.Store // optional persistence, nil when disabled
}

// New creates a pipeline bound to a session. store may be nil.
func New(sess *session.Session, client backend.Client, store *db.Store) *Pipeline {
	p := &Pipeline{sess: sess, client: client, store: store}
	p.RecomputeStatus()
	return p
}

// Session returns the session this pipeline operates on.
func (p *Pipeline) Session() *session.Session { return p.sess }

// Analyze runs the job-fit analysis stage.
func (p *Pipeline) Analyze(ctx context.Context, in Inputs) types.Result[types.JobAnalysis] {
	p.sess.SetForm(in.JobDescription, in.UserPrompt)
	return p.runAnalyze(ctx, in)
}

// runAnalyze is Analyze without the form-input bookkeeping so dependent
// stages can trigger it implicitly.
func (p *Pipeline) runAnalyze(ctx context.Context, in Inputs) types.Result[types.JobAnalysis] {
	if !in.Resume.HasPersonalInfo() {
		err := &ValidationError{Field: "personal_info", Reason: "at least one personal-info field is required"}
		p.sess.SetFailure(err.Error(), "Analysis blocked: incomplete resume")
		return types.FailErr[types.JobAnalysis](err)
	}

	if !p.sess.TryBegin(types.KindAnalysis) {
		return types.FailErr[types.JobAnalysis](ErrInFlight)
	}
	defer p.sess.End(types.KindAnalysis)

	_, model := p.sess.Registry().Active()
	analysis, err := callRemote(func() (*types.JobAnalysis, error) {
		return p.client.AnalyzeJob(ctx, backend.AnalyzeRequest{
			JobDescription: in.JobDescription,
			JobURL:         in.JobURL,
			Resume:         in.Resume,
			Model:          model,
		})
	})

	var result types.Result[types.JobAnalysis]
	if err != nil {
		result = types.FailErr[types.JobAnalysis](err)
		p.settle(ctx, types.KindAnalysis, overlay.Generated{ErrorMessage: err.Error()}, "Analysis")
	} else {
		result = types.Ok(*analysis)
		p.sess.SetAnalysis(analysis)
		p.settle(ctx, types.KindAnalysis, overlay.Generated{Success: true, Payload: analysis}, "Analysis")
	}
	return result
}

// Tailor runs the tailored-resume stage. When no successful analysis exists
// yet, it runs the analysis first and uses the outcome as context; if that
// implicit analysis fails, tailoring proceeds without context. Analysis is an
// enrichment here, not a precondition.
func (p *Pipeline) Tailor(ctx context.Context, in Inputs) types.Result[types.ResumeData] {
	p.sess.SetForm(in.JobDescription, in.UserPrompt)

	analysisCtx := p.sess.Analysis()
	if analysisCtx == nil {
		if dep := p.runAnalyze(ctx, in); dep.Success {
			analysisCtx = dep.Payload
		}
	}
	return p.runTailor(ctx, in, analysisCtx)
}

func (p *Pipeline) runTailor(ctx context.Context, in Inputs, analysisCtx *types.JobAnalysis) types.Result[types.ResumeData] {
	if !p.sess.TryBegin(types.KindTailoredResume) {
		return types.FailErr[types.ResumeData](ErrInFlight)
	}
	defer p.sess.End(types.KindTailoredResume)

	_, model := p.sess.Registry().Active()
	tailored, err := callRemote(func() (*types.ResumeData, error) {
		return p.client.TailorResume(ctx, backend.TailorRequest{
			JobDescription:  in.JobDescription,
			Resume:          in.Resume,
			Model:           model,
			UserPrompt:      in.UserPrompt,
			AnalysisContext: analysisCtx,
		})
	})

	var result types.Result[types.ResumeData]
	if err != nil {
		result = types.FailErr[types.ResumeData](err)
		p.settle(ctx, types.KindTailoredResume, overlay.Generated{ErrorMessage: err.Error()}, "Tailoring")
	} else {
		result = types.Ok(*tailored)
		p.settle(ctx, types.KindTailoredResume, overlay.Generated{Success: true, Payload: tailored}, "Tailoring")
	}
	return result
}

// DraftCoverLetter runs the cover-letter stage. Unlike Tailor it does not
// trigger an analysis when one is missing; absent context is passed through.
func (p *Pipeline) DraftCoverLetter(ctx context.Context, in Inputs) types.Result[string] {
	p.sess.SetForm(in.JobDescription, in.UserPrompt)
	return p.runCoverLetter(ctx, in, p.sess.Analysis())
}

func (p *Pipeline) runCoverLetter(ctx context.Context, in Inputs, analysisCtx *types.JobAnalysis) types.Result[string] {
	if !p.sess.TryBegin(types.KindCoverLetter) {
		return types.FailErr[string](ErrInFlight)
	}
	defer p.sess.End(types.KindCoverLetter)

	_, model := p.sess.Registry().Active()
	body, err := callRemote(func() (string, error) {
		return p.client.GenerateCoverLetter(ctx, backend.CoverLetterRequest{
			JobDescription:  in.JobDescription,
			Resume:          in.Resume,
			Model:           model,
			UserPrompt:      in.UserPrompt,
			AnalysisContext: analysisCtx,
		})
	})

	var result types.Result[string]
	if err != nil {
		result = types.FailErr[string](err)
		p.settle(ctx, types.KindCoverLetter, overlay.Generated{ErrorMessage: err.Error()}, "Cover letter")
	} else {
		result = types.Ok(body)
		p.settle(ctx, types.KindCoverLetter, overlay.Generated{Success: true, Payload: body}, "Cover letter")
	}
	return result
}

// SuggestImprovements runs the improvement-suggestions stage. Same
// pass-through context behavior as DraftCoverLetter.
func (p *Pipeline) SuggestImprovements(ctx context.Context, in Inputs) types.Result[string] {
	p.sess.SetForm(in.JobDescription, "")
	return p.runSuggestions(ctx, in, p.sess.Analysis())
}

func (p *Pipeline) runSuggestions(ctx context.Context, in Inputs, analysisCtx *types.JobAnalysis) types.Result[string] {
	if !p.sess.TryBegin(types.KindSuggestions) {
		return types.FailErr[string](ErrInFlight)
	}
	defer p.sess.End(types.KindSuggestions)

	_, model := p.sess.Registry().Active()
	content, err := callRemote(func() (string, error) {
		return p.client.ImprovementSuggestions(ctx, backend.SuggestionsRequest{
			JobDescription:  in.JobDescription,
			Resume:          in.Resume,
			Model:           model,
			AnalysisContext: analysisCtx,
		})
	})

	var result types.Result[string]
	if err != nil {
		result = types.FailErr[string](err)
		p.settle(ctx, types.KindSuggestions, overlay.Generated{ErrorMessage: err.Error()}, "Suggestions")
	} else {
		result = types.Ok(content)
		p.settle(ctx, types.KindSuggestions, overlay.Generated{Success: true, Payload: content}, "Suggestions")
	}
	return result
}

// GenerateAll produces every artifact in one call: the analysis first (reused
// when a successful one already exists), then the three dependent stages
// concurrently. The dependency is always awaited before its dependents start.
func (p *Pipeline) GenerateAll(ctx context.Context, in Inputs) AllResults {
	var out AllResults

	if existing := p.sess.Analysis(); existing != nil {
		out.Analysis = types.Ok(*existing)
	} else {
		out.Analysis = p.Analyze(ctx, in)
	}
	analysisCtx := p.sess.Analysis()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.TailoredResume = p.runTailor(gctx, in, analysisCtx)
		return nil
	})
	g.Go(func() error {
		out.CoverLetter = p.runCoverLetter(gctx, in, analysisCtx)
		return nil
	})
	g.Go(func() error {
		out.Suggestions = p.runSuggestions(gctx, in, analysisCtx)
		return nil
	})
	_ = g.Wait()

	return out
}

// TestCredential verifies the active provider's credential against the
// backend. A successful test refreshes the cost ledger, since credential
// validation is a billable-adjacent trigger in the refresh contract.
func (p *Pipeline) TestCredential(ctx context.Context) error {
	provider, model := p.sess.Registry().Active()
	credential := p.sess.Registry().Credential()

	err := p.client.TestCredential(ctx, provider, credential, model)
	if err == nil {
		p.sess.Ledger().Refresh(ctx)
	}
	p.RecomputeStatus()
	return err
}

// RecomputeStatus re-projects the readiness line from current session state.
func (p *Pipeline) RecomputeStatus() {
	provider, model := p.sess.Registry().Active()
	line := ProjectStatus(provider, model, p.sess.Registry().HasCredential(), p.sess.Ledger().Display())
	p.sess.SetStatusLine(line)
}

// settle applies the shared completion protocol after a remote call.
func (p *Pipeline) settle(ctx context.Context, kind types.ArtifactKind, g overlay.Generated, label string) {
	p.sess.Ledger().Refresh(ctx)
	p.sess.Overlay().SetGenerated(kind, g)
	if g.Success {
		p.sess.SetSuccess(label + " complete")
	} else {
		p.sess.SetFailure(g.ErrorMessage, label+" failed")
	}
	p.RecomputeStatus()
	p.persist(ctx, kind, g)
}

// persist saves the settled outcome when a store is configured. Persistence is
// best effort: failures warn and never fail the operation.
func (p *Pipeline) persist(ctx context.Context, kind types.ArtifactKind, g overlay.Generated) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveArtifact(ctx, p.sess.ID(), string(kind), g.Success, g.Payload, g.ErrorMessage); err != nil {
		log.Printf("Warning: failed to persist %s artifact: %v", kind, err)
	}
}

// callRemote invokes a backend call, converting a panic in the transport
// layer into an error so the operation settles instead of crashing.
func callRemote[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()
	return fn()
}
