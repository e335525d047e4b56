package gameapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-mines/config"
	dmn "github.com/beka-birhanu/vinom-mines/domain"
	"github.com/beka-birhanu/vinom-mines/game"
	"github.com/beka-birhanu/vinom-mines/service"
	"github.com/beka-birhanu/vinom-mines/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL   = 24 * time.Hour
	defaultBoardLimit = 10
	maxBoardLimit     = 100
	maxImportBytes    = 1 << 20
)

// GameController serves game sessions.
type GameController struct {
	gameSessionManager i.GameSessionManager
	tokenizer          i.Tokenizer
	presets            config.Presets
	tokenTTL           time.Duration
}

// NewGameController initializes a GameController. A zero tokenTTL uses a day.
func NewGameController(gsm i.GameSessionManager, ts i.Tokenizer, presets config.Presets, tokenTTL time.Duration) (*GameController, error) {
	if gsm == nil || ts == nil {
		return nil, errors.New("game controller needs a session manager and a tokenizer")
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &GameController{
		gameSessionManager: gsm,
		tokenizer:          ts,
		presets:            presets,
		tokenTTL:           tokenTTL,
	}, nil
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/presets", gc.listPresets)
	route.GET("/leaderboard/:preset", gc.leaderboard)

	games := route.Group("/games")
	{
		games.POST("", gc.newGame)
		games.POST("/import", gc.importGame)
		games.POST("/open", gc.openFile)
		games.POST("/restore/:saveID", gc.restore)
	}
}

// RegisterProtected registers routes that need the session's token.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	games := route.Group("/games/:ID")
	{
		games.GET("", gc.state)
		games.DELETE("", gc.close)
		games.POST("/reveal", gc.reveal)
		games.POST("/flag", gc.flag)
		games.POST("/undo", gc.undo)
		games.POST("/redo", gc.redo)
		games.POST("/restart", gc.restart)
		games.POST("/save", gc.save)
		games.POST("/save-file", gc.saveFile)
		games.GET("/export", gc.export)
	}
}

// abortWithError maps service errors to status codes.
func abortWithError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrOutOfBounds),
		errors.Is(err, game.ErrInvalidConfig),
		errors.Is(err, config.ErrUnknownPreset),
		errors.Is(err, service.ErrInvalidSaveName):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSaveNotFound),
		errors.Is(err, dmn.ErrSavedGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidFormat):
		status = http.StatusUnprocessableEntity
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return uuid.Nil, false
	}
	return ID, true
}

// hosted answers a request that created a session, handing out its play token.
func (gc *GameController) hosted(ctx *gin.Context, ID uuid.UUID, st game.State) {
	token, err := gc.tokenizer.Generate(map[string]interface{}{SessionClaim: ID.String()}, gc.tokenTTL)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	response := newGameResponse(st)
	response.ID = ID.String()
	response.Token = token
	ctx.JSON(http.StatusCreated, response)
}

func (gc *GameController) listPresets(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, newPresetResponses(gc.presets))
}

func (gc *GameController) leaderboard(ctx *gin.Context) {
	limit := defaultBoardLimit
	if q := ctx.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > maxBoardLimit {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	scores, err := gc.gameSessionManager.Leaderboard(ctx, ctx.Param("preset"), int64(limit))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newScoreResponses(scores))
}

func (gc *GameController) newGame(ctx *gin.Context) {
	var request NewGameRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ID, st, err := gc.gameSessionManager.NewSession(ctx, request.toService())
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	gc.hosted(ctx, ID, st)
}

// importGame reads a save game from the raw request body.
func (gc *GameController) importGame(ctx *gin.Context) {
	body := io.LimitReader(ctx.Request.Body, maxImportBytes)
	ID, st, err := gc.gameSessionManager.Import(body, ctx.Query("player"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	gc.hosted(ctx, ID, st)
}

func (gc *GameController) openFile(ctx *gin.Context) {
	var request FileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ID, st, err := gc.gameSessionManager.LoadFromDisk(request.Name, request.Player)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	gc.hosted(ctx, ID, st)
}

func (gc *GameController) restore(ctx *gin.Context) {
	saveID, err := uuid.Parse(ctx.Param("saveID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid save id"})
		return
	}

	ID, st, err := gc.gameSessionManager.Restore(ctx, saveID, ctx.Query("player"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	gc.hosted(ctx, ID, st)
}

func (gc *GameController) state(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	st, err := gc.gameSessionManager.State(ID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newGameResponse(st))
}

func (gc *GameController) reveal(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, res, err := gc.gameSessionManager.Reveal(ctx, ID, *request.Row, *request.Col)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	response := newGameResponse(st)
	response.Result = res.String()
	ctx.JSON(http.StatusOK, response)
}

func (gc *GameController) flag(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := gc.gameSessionManager.Flag(ID, *request.Row, *request.Col)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newGameResponse(st))
}

func (gc *GameController) undo(ctx *gin.Context) {
	gc.step(ctx, gc.gameSessionManager.Undo)
}

func (gc *GameController) redo(ctx *gin.Context) {
	gc.step(ctx, gc.gameSessionManager.Redo)
}

// step applies a history move and reports whether it changed anything.
func (gc *GameController) step(ctx *gin.Context, move func(uuid.UUID) (game.State, bool, error)) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	st, changed, err := move(ID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	response := newGameResponse(st)
	response.Changed = &changed
	ctx.JSON(http.StatusOK, response)
}

func (gc *GameController) restart(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	st, err := gc.gameSessionManager.Restart(ID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newGameResponse(st))
}

func (gc *GameController) save(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	saveID, err := gc.gameSessionManager.Save(ctx, ID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, &SaveResponse{SaveID: saveID.String()})
}

func (gc *GameController) saveFile(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	var request FileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name, err := gc.gameSessionManager.SaveToDisk(ID, request.Name)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, &SaveResponse{Name: name})
}

func (gc *GameController) export(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := gc.gameSessionManager.Export(ID, &buf); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+ID.String()+`.sav"`)
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (gc *GameController) close(ctx *gin.Context) {
	ID, ok := sessionID(ctx)
	if !ok {
		return
	}
	if err := gc.gameSessionManager.Close(ID); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
