// Package server exposes the projection engine over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/business-case/internal/config"
	"github.com/iwvelando/business-case/internal/forecast"
	"github.com/iwvelando/business-case/internal/optimizer"
	"github.com/iwvelando/business-case/pkg/constants"
	"github.com/iwvelando/business-case/pkg/numeric"
	"github.com/iwvelando/business-case/pkg/output"
	"github.com/iwvelando/business-case/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

type projectionOptions struct {
	GoalSeek     bool
	OutputFormat string
}

// requestError carries the HTTP status a failed projection request maps to.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...interface{}) *requestError {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Projection endpoint: multipart YAML upload or JSON {config, options}
	mux.HandleFunc("/api/projection", h.handleProjection)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type projectionResponse struct {
	Scenarios  []string            `json:"scenarios"`
	Forecasts  []forecast.Forecast `json:"forecasts"`
	CSV        string              `json:"csv"`
	Rendered   string              `json:"rendered,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   string              `json:"duration"`
	ConfigYAML string              `json:"configYaml,omitempty"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var (
		configBytes []byte
		opts        projectionOptions
		err         error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		configBytes, opts, err = h.readUpload(r)
	} else {
		configBytes, opts, err = readJSONPayload(r)
	}
	if err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	if opts.OutputFormat != "" {
		if err := validation.ValidateOutputFormat(opts.OutputFormat); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	h.runProjection(w, r, configBytes, opts, start, op)
}

// readUpload extracts the YAML file part and any form-level options.
func (h *handler) readUpload(r *http.Request) ([]byte, projectionOptions, error) {
	var opts projectionOptions
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, opts, &requestError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize),
			}
		}
		return nil, opts, badRequest("failed to parse upload: %v", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, opts, badRequest("missing configuration file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, opts, &requestError{
			status: http.StatusInternalServerError,
			msg:    fmt.Sprintf("failed to read configuration: %v", err),
		}
	}

	if raw := r.FormValue("goalSeek"); raw != "" {
		if opts.GoalSeek, err = numeric.ParseBool(raw); err != nil {
			return nil, opts, badRequest("invalid goalSeek option: %v", err)
		}
	}
	opts.OutputFormat = strings.ToLower(strings.TrimSpace(r.FormValue("outputFormat")))

	if _, err := decodeYAMLToMap(buf.Bytes()); err != nil {
		return nil, opts, badRequest("error reading config data, %v", err)
	}
	return buf.Bytes(), opts, nil
}

// readJSONPayload accepts either a bare configuration object or
// {"config": {...}, "options": {...}} and re-encodes the configuration as YAML.
func readJSONPayload(r *http.Request) ([]byte, projectionOptions, error) {
	var opts projectionOptions

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, opts, &requestError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("request exceeds limit of %d bytes", maxBytesErr.Limit),
			}
		}
		return nil, opts, badRequest("failed to decode configuration: %v", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, opts, badRequest("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			return nil, opts, badRequest("invalid options payload: expected object")
		}
		if value, ok := optsMap["goalSeek"]; ok {
			parsed, err := numeric.ParseBool(value)
			if err != nil {
				return nil, opts, badRequest("invalid goalSeek option: %v", err)
			}
			opts.GoalSeek = parsed
		}
		if value, ok := optsMap["outputFormat"].(string); ok {
			opts.OutputFormat = strings.ToLower(strings.TrimSpace(value))
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return nil, opts, badRequest("failed to encode configuration: %v", err)
	}
	return configBytes, opts, nil
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runProjection(w http.ResponseWriter, r *http.Request, configBytes []byte, opts projectionOptions, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	ctx := r.Context()

	var seekResult *optimizer.Result
	if opts.GoalSeek {
		runner, err := optimizer.NewRunner(h.logger, cfg)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize goal seek: %v", err), op)
			return
		}
		seekResult, err = runner.Run(ctx)
		if err != nil {
			h.respondErrorWithOp(w, statusForError(err), fmt.Sprintf("goal seek failed: %v", err), op)
			return
		}
	}

	results, err := forecast.GetForecast(ctx, h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), fmt.Sprintf("failed to compute projection: %v", err), op)
		return
	}

	if seekResult != nil && !seekResult.Empty() {
		seekResult.Apply(results)
	}

	if opts.GoalSeek {
		updatedBytes, err := yaml.Marshal(cfg)
		if err != nil {
			h.logger.Warn("failed to marshal solved configuration",
				zap.String("op", op),
				zap.Error(err),
			)
		} else {
			configBytes = updatedBytes
		}
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	var rendered string
	switch opts.OutputFormat {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		var buf bytes.Buffer
		if err := output.Write(&buf, opts.OutputFormat, results); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render output: %v", err), op)
			return
		}
		rendered = buf.String()
	}

	if results == nil {
		results = []forecast.Forecast{}
	}
	elapsed := time.Since(start)

	response := projectionResponse{
		Scenarios:  extractScenarioNames(results),
		Forecasts:  results,
		CSV:        csvData,
		Rendered:   rendered,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Bool("goalSeek", opts.GoalSeek),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// statusForError maps caller-correctable configuration and input errors to 400.
func statusForError(err error) int {
	var configErr *validation.ConfigurationError
	var inputErr *validation.InputDataError
	switch {
	case errors.As(err, &configErr), errors.As(err, &inputErr), errors.Is(err, forecast.ErrScenarioNotFound):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondRequestError(w http.ResponseWriter, err error, op string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		h.respondErrorWithOp(w, reqErr.status, reqErr.msg, op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("projection request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func extractScenarioNames(results []forecast.Forecast) []string {
	names := make([]string, 0, len(results))
	for _, scenario := range results {
		names = append(names, scenario.Name)
	}
	return names
}
