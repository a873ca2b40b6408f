package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/scribe-ai/scribe/internal/changelog"
	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/prompt"
	"github.com/scribe-ai/scribe/internal/provider"
	"github.com/scribe-ai/scribe/internal/tokens"
)

// maxCandidates caps how many candidates one request may ask for.
const maxCandidates = 3

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps pipeline errors to HTTP statuses. Caller mistakes are
// 400s; provider trouble is a gateway problem; everything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, prompt.ErrNoContext),
		errors.Is(err, prompt.ErrBudgetTooSmall),
		errors.Is(err, git.ErrBadRange):
		return http.StatusBadRequest
	case errors.Is(err, provider.ErrUnavailable),
		errors.Is(err, provider.ErrResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- Commit message ---

type commitMessageRequest struct {
	Diff         string `json:"diff"`
	Instructions string `json:"instructions,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	Gitmoji      *bool  `json:"gitmoji,omitempty"`
	N            int    `json:"n,omitempty"`
}

type commitMessageResponse struct {
	Candidates   []string `json:"candidates"`
	Provider     string   `json:"provider"`
	Model        string   `json:"model"`
	PromptTokens int      `json:"prompt_tokens"`
}

func (s *Server) handleCommitMessage(w http.ResponseWriter, r *http.Request) {
	var req commitMessageRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Diff == "" {
		writeError(w, http.StatusBadRequest, "diff is required")
		return
	}

	snap, err := git.SnapshotFromDiff(req.Diff)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parsing diff: "+err.Error())
		return
	}

	frags, err := prompt.FromSnapshot(snap, prompt.BuildOptions{Instructions: req.Instructions})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	backend, model, limit, err := s.newBackend(req.Provider, req.Model)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	gitmoji := s.cfg.Gitmoji
	if req.Gitmoji != nil {
		gitmoji = *req.Gitmoji
	}

	asm, err := prompt.Assemble(frags,
		prompt.Budget{MaxTokens: limit, ReservedForResponse: s.cfg.ReservedTokens},
		tokens.ForModel(model),
		prompt.Options{Task: prompt.TaskCommitMessage, Gitmoji: gitmoji})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	n := req.N
	if n <= 0 {
		n = 1
	}
	if n > maxCandidates {
		n = maxCandidates
	}

	resp, err := backend.Complete(r.Context(), provider.Request{
		System:    asm.System,
		Prompt:    asm.User,
		MaxTokens: s.cfg.ReservedTokens,
		N:         n,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, commitMessageResponse{
		Candidates:   resp.Candidates,
		Provider:     backend.Name(),
		Model:        model,
		PromptTokens: asm.Tokens,
	})
}

// --- Changelog ---

type changelogRequest struct {
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Detail       string `json:"detail,omitempty"`
	Format       string `json:"format,omitempty"`
	Task         string `json:"task,omitempty"` // changelog (default) or release-notes
	Instructions string `json:"instructions,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
}

type changelogResponse struct {
	Content  string `json:"content"`
	Format   string `json:"format"`
	Commits  int    `json:"commits"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (s *Server) handleChangelog(w http.ResponseWriter, r *http.Request) {
	if s.root == "" {
		writeError(w, http.StatusServiceUnavailable, "server is not running inside a git repository")
		return
	}

	var req changelogRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.From == "" {
		writeError(w, http.StatusBadRequest, "from is required")
		return
	}

	task := prompt.TaskChangelog
	switch req.Task {
	case "", "changelog":
	case "release-notes":
		task = prompt.TaskReleaseNotes
	default:
		writeError(w, http.StatusBadRequest, "unknown task "+req.Task)
		return
	}

	detail, err := prompt.ParseDetailLevel(req.Detail)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := req.Format
	if format == "" {
		format = "markdown"
	}
	if format != "markdown" && format != "html" {
		writeError(w, http.StatusBadRequest, "unknown format "+format)
		return
	}

	changes, err := changelog.Analyze(s.root, req.From, req.To)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	frags := changelog.Fragments(changes, req.From, req.To, detail, git.Readme(s.root))
	if f, ok := prompt.InstructionFragment(req.Instructions); ok {
		frags = append(frags, f)
	}

	backend, model, limit, err := s.newBackend(req.Provider, req.Model)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	asm, err := prompt.Assemble(frags,
		prompt.Budget{MaxTokens: limit, ReservedForResponse: s.cfg.ReservedTokens},
		tokens.ForModel(model),
		prompt.Options{Task: task, Detail: detail})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp, err := backend.Complete(r.Context(), provider.Request{
		System:    asm.System,
		Prompt:    asm.User,
		MaxTokens: s.cfg.ReservedTokens,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if len(resp.Candidates) == 0 || strings.TrimSpace(resp.Candidates[0]) == "" {
		writeError(w, http.StatusBadGateway, "provider returned no usable text")
		return
	}
	content := strings.TrimSpace(resp.Candidates[0]) + "\n"

	if format == "html" {
		to := req.To
		if to == "" {
			to = "HEAD"
		}
		title := "Changelog"
		if task == prompt.TaskReleaseNotes {
			title = "Release Notes"
		}
		content, err = changelog.RenderHTML(title+" "+req.From+".."+to, content)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, changelogResponse{
		Content:  content,
		Format:   format,
		Commits:  len(changes),
		Provider: backend.Name(),
		Model:    model,
	})
}
