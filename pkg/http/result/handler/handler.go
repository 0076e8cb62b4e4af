package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/http/problem_detail/problem_detail_config"
	"github.com/Motmedel/results_go/pkg/http/response_writer"
	"github.com/Motmedel/results_go/pkg/http/result"
	resultErrors "github.com/Motmedel/results_go/pkg/http/result/errors"
	"github.com/Motmedel/results_go/pkg/http/result/executor"
	motmedelLog "github.com/Motmedel/results_go/pkg/log"
)

type Function func(*http.Request) (result.Result, error)

// Handler serves the result of Function with Executor. Errors are logged, and when no status has
// been written yet the client receives a 500 problem.
type Handler struct {
	Function Function
	Executor *executor.Executor
	Logger   *slog.Logger
}

func New(resultExecutor *executor.Executor, function Function) *Handler {
	return &Handler{Function: function, Executor: resultExecutor}
}

func (handler *Handler) executor() *executor.Executor {
	if handler.Executor != nil {
		return handler.Executor
	}
	return &executor.Executor{}
}

func (handler *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	responseWriter := response_writer.New(w, r)
	resultExecutor := handler.executor()

	function := handler.Function
	if function == nil {
		handler.handleError(responseWriter, r, resultExecutor, motmedelErrors.NewWithTrace(resultErrors.ErrNilHandlerFunction))
		return
	}

	res, err := function(r)
	if err != nil {
		handler.handleError(responseWriter, r, resultExecutor, motmedelErrors.New(err))
		return
	}

	if err := resultExecutor.Execute(responseWriter, r, res); err != nil {
		handler.handleError(responseWriter, r, resultExecutor, err)
	}
}

func (handler *Handler) handleError(
	responseWriter *response_writer.ResponseWriter,
	r *http.Request,
	resultExecutor *executor.Executor,
	err error,
) {
	ctx := r.Context()

	if errors.Is(err, context.Canceled) {
		motmedelLog.LogWarning(ctx, "The request was canceled.", err, handler.Logger)
		return
	}

	if traceIdentifier := resultExecutor.TraceIdentifier; traceIdentifier != nil {
		var motmedelError *motmedelErrors.Error
		if errors.As(err, &motmedelError) && motmedelError.Id == "" {
			motmedelError.Id = traceIdentifier(r)
		}
	}

	motmedelLog.LogError(ctx, "A server error occurred.", err, handler.Logger)

	if responseWriter.WriteHeaderCalled {
		return
	}

	problem := result.Problem(problem_detail_config.WithStatus(http.StatusInternalServerError))
	if err := resultExecutor.Execute(responseWriter, r, problem); err != nil {
		motmedelLog.LogError(ctx, "An error occurred when writing an error response.", err, handler.Logger)
	}
}
