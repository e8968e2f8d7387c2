package httpapi

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/RonakMehtaa/pokeranalysis/internal/models"
	"github.com/RonakMehtaa/pokeranalysis/internal/prompts"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Poker Analysis API - Data-Driven Range System",
		"status":  "active",
		"version": Version,
		"note":    "All poker ranges are user-defined and loaded from JSON files. No strategy is hardcoded.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"ranges_loaded": s.ranges.Count(),
	})
}

// handleRangesMetadata reports which range files are loaded. No range
// contents are returned here, only metadata.
func (s *Server) handleRangesMetadata(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ranges.Metadata())
}

// handleRange returns the full 169-hand matrix for one range, with an
// all-fold default when the file does not exist.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tableType := q.Get("table_type")
	position := q.Get("position")
	action := q.Get("action")
	if tableType == "" || position == "" || action == "" {
		s.writeError(w, http.StatusBadRequest, "table_type, position and action query parameters are required")
		return
	}

	rng := s.ranges.GetOrDefault(tableType, position, action)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"table_type":   rng.TableType,
		"position":     rng.Position,
		"action":       rng.Action,
		"hands":        rng.Hands,
		"explanations": rng.Explanations,
	})
}

// handlePreflopDecision looks up the user-defined action for one hand.
// Only the "folded to hero" scenario has range files today.
func (s *Server) handlePreflopDecision(w http.ResponseWriter, r *http.Request) {
	var req models.PreflopDecisionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if !models.ValidHandNotation(req.HeroHand) {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid hand format: %s. Use format like AKs, 77, QJo", req.HeroHand))
		return
	}

	if req.PriorAction != "folded" {
		s.writeJSON(w, http.StatusOK, map[string]string{
			"recommended_action": "Coming soon",
			"explanation": fmt.Sprintf(
				"Currently only 'folded to you' scenarios are supported. "+
					"To add call/3-bet ranges, create JSON files like: data/ranges/%s_%s_call.json",
				req.TableType, req.Position),
			"hand":         req.HeroHand,
			"table_type":   req.TableType,
			"position":     req.Position,
			"prior_action": req.PriorAction,
		})
		return
	}

	rng := s.ranges.GetOrDefault(req.TableType, req.Position, "open")
	s.writeJSON(w, http.StatusOK, map[string]string{
		"recommended_action": rng.ActionFor(req.HeroHand),
		"explanation":        rng.ExplanationFor(req.HeroHand),
		"hand":               req.HeroHand,
		"table_type":         req.TableType,
		"position":           req.Position,
		"prior_action":       req.PriorAction,
	})
}

func (s *Server) handleLLMHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.llm.CheckHealth(r.Context()))
}

// handleLLMAnalyze asks the LLM to discuss a hand in the context of its
// user-defined range data.
func (s *Server) handleLLMAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.LLMAnalysisRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if !models.ValidHandNotation(req.Hand) {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid hand format: %s. Use format like AKs, 77, QJo", req.Hand))
		return
	}

	rng := s.ranges.GetOrDefault(req.TableType, req.Position, req.Action)
	recommended := rng.ActionFor(req.Hand)
	explanation := rng.ExplanationFor(req.Hand)

	prompt := prompts.RangeAnalysis(&req, recommended, explanation)
	analysis, err := s.llm.Generate(r.Context(), prompt)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "LLM service error: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"hand":               req.Hand,
		"position":           req.Position,
		"table_type":         req.TableType,
		"action":             req.Action,
		"recommended_action": recommended,
		"range_explanation":  explanation,
		"llm_analysis":       analysis,
		"source":             "user_defined_range + llm_analysis",
	})
}

// handleAnalyze runs the free-form preflop analysis through the
// analyze_{mode} template.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.HandAnalysisRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prompt, err := s.prompts.Analyze(&req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	analysis, err := s.llm.Generate(r.Context(), prompt)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "LLM error: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

type postflopRequest struct {
	Hand         models.HandRecord `json:"hand"`
	AnalysisType string            `json:"analysis_type"`
}

// handleAnalyzePostflop renders the template for the requested analysis
// type from a full hand record and forwards it to the LLM.
func (s *Server) handleAnalyzePostflop(w http.ResponseWriter, r *http.Request) {
	var req postflopRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Hand.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var template string
	switch req.AnalysisType {
	case "gto":
		template = prompts.TemplateGTO
	case "exploitative":
		template = prompts.TemplateExploitative
	case "exploitative_with_notes":
		if req.Hand.VillainNotes == "" {
			s.writeError(w, http.StatusBadRequest,
				"villain_notes field is required for exploitative_with_notes analysis")
			return
		}
		template = prompts.TemplateExploitativeWithNotes
	case "review":
		template = prompts.TemplateReview
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid analysis_type: %s", req.AnalysisType))
		return
	}

	prompt, err := s.prompts.Postflop(template, &req.Hand)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	analysis, err := s.llm.Generate(r.Context(), prompt)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "LLM service error: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"hand_summary":  req.Hand.Summary(),
		"analysis_type": req.AnalysisType,
		"street":        req.Hand.Street(),
		"board":         req.Hand.Board(),
		"analysis":      analysis,
		"disclaimer":    "This analysis is generated by an LLM and should be used for learning purposes only.",
	})
}

// handleChatHand answers a follow-up question scoped to one analyzed
// hand.
func (s *Server) handleChatHand(w http.ResponseWriter, r *http.Request) {
	var req models.ChatMessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	answer, err := s.llm.Generate(r.Context(), prompts.Chat(&req))
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "Chat service error: "+err.Error())
		return
	}

	s.log.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"hand_id":    req.HandID,
	}).Info("answered hand chat question")

	s.writeJSON(w, http.StatusOK, map[string]string{
		"hand_id":       req.HandID,
		"question":      req.Message,
		"answer":        answer,
		"analysis_mode": req.HandContext.AnalysisMode,
	})
}
