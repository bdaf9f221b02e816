// internal/api/tournament_handlers.go
// Tournament management HTTP handlers

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SiRipo92/chess-manager/internal/codec"
	"github.com/SiRipo92/chess-manager/internal/engine"
	"github.com/SiRipo92/chess-manager/internal/match"
	"github.com/SiRipo92/chess-manager/internal/player"
	"github.com/SiRipo92/chess-manager/internal/progress"

	"github.com/gin-gonic/gin"
)

// createTournamentRequest is the payload to open a new tournament.
type createTournamentRequest struct {
	Location     string `json:"location" binding:"required"`
	Description  string `json:"description"`
	NumberRounds int    `json:"number_rounds"`
}

// HandleCreateTournament creates a new tournament record in registration state.
func HandleCreateTournament(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTournamentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
			return
		}

		t, err := svc.CreateTournament(req.Location, req.Description, req.NumberRounds)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tournament", "details": err.Error()})
			return
		}

		rec, err := t.ToDict()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize tournament"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"tournament": rec})
	}
}

// HandleGetTournament retrieves a single tournament by its repo_name.
func HandleGetTournament(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		t, err := svc.Get(name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tournament not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tournament", "details": err.Error()})
			return
		}

		rec, err := t.ToDict()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize tournament"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tournament": rec})
	}
}

// HandleListTournaments lists every stored tournament record.
func HandleListTournaments(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tournaments := svc.List()
		c.JSON(http.StatusOK, gin.H{
			"tournaments": tournaments,
			"count":       len(tournaments),
		})
	}
}

// addPlayerRequest is the payload to register one player on a
// tournament still in registration.
type addPlayerRequest struct {
	LastName   string `json:"last_name" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	Birthdate  string `json:"birthdate" binding:"required"`
	NationalID string `json:"national_id" binding:"required"`
}

// HandleAddPlayer registers a new player on the named tournament.
func HandleAddPlayer(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		var req addPlayerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
			return
		}

		p, err := player.New(req.LastName, req.FirstName, req.Birthdate, req.NationalID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player", "details": err.Error()})
			return
		}

		if err := svc.AddPlayer(name, p); err != nil {
			status := classifyEngineError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "player registered"})
	}
}

// HandleStartFirstRound launches the named tournament's first round.
func HandleStartFirstRound(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		r, err := svc.StartFirstRound(name)
		if err != nil {
			status := classifyEngineError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"round": r.ToRecord()})
	}
}

// HandleStartNextRound advances the named tournament to its next round.
func HandleStartNextRound(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		r, err := svc.StartNextRound(name)
		if err != nil {
			status := classifyEngineError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"round": r.ToRecord()})
	}
}

type startTiebreakRequest struct {
	Leaders []string `json:"leaders" binding:"required"`
}

// HandleStartTiebreakRound creates an extra round pairing only the
// tied leaders.
func HandleStartTiebreakRound(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		var req startTiebreakRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
			return
		}

		r, err := svc.StartTiebreakRound(name, req.Leaders)
		if err != nil {
			status := classifyEngineError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"round": r.ToRecord()})
	}
}

type recordResultRequest struct {
	Code string `json:"code" binding:"required"`
}

// HandleRecordMatchResult applies a result code ("V", "D", "N", or "E")
// to one match and folds its points into the tournament's ledger.
func HandleRecordMatchResult(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		roundNumber, err := strconv.Atoi(c.Param("round"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "round must be an integer"})
			return
		}
		matchIndex, err := strconv.Atoi(c.Param("match"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "match must be an integer"})
			return
		}

		var req recordResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
			return
		}

		if err := svc.RecordMatchResult(name, roundNumber, matchIndex, req.Code); err != nil {
			status := classifyEngineError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "result recorded"})
	}
}

// HandleFinishTournament finalizes the named tournament.
func HandleFinishTournament(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		t, err := svc.Finish(name)
		if err != nil {
			status := classifyEngineError(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		rec, err := t.ToDict()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize tournament"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tournament": rec})
	}
}

// HandleGetProgress reports the named tournament's lifecycle status and
// completion percentage.
func HandleGetProgress(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		t, err := svc.Get(name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tournament not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tournament", "details": err.Error()})
			return
		}

		a := progress.ModelAccessor{Tournament: t}
		c.JSON(http.StatusOK, gin.H{
			"name":     name,
			"status":   progress.StatusLabel(a),
			"percent":  progress.ProgressPercent(a),
			"started":  progress.IsStarted(a),
			"finished": progress.IsFinished(a),
		})
	}
}

// HandleGetStats returns the cross-tournament per-player rollup.
func HandleGetStats(svc *TournamentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"players": svc.AggregatedStats()})
	}
}

// classifyEngineError maps a sentinel engine/repository error to its
// HTTP status, defaulting to 500 for anything unrecognized.
func classifyEngineError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrInvalidCode),
		errors.Is(err, match.ErrInvalidScore),
		errors.Is(err, match.ErrUnknownPlayer):
		return http.StatusBadRequest
	case errors.Is(err, match.ErrExemptMatch),
		errors.Is(err, engine.ErrDuplicatePlayer),
		errors.Is(err, engine.ErrRegistrationClosed),
		errors.Is(err, engine.ErrRosterTooSmall),
		errors.Is(err, engine.ErrAlreadyStarted),
		errors.Is(err, engine.ErrNotStarted),
		errors.Is(err, engine.ErrNoMoreRounds),
		errors.Is(err, engine.ErrNoTie),
		errors.Is(err, engine.ErrUnknownLeader):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
