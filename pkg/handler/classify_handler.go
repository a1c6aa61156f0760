package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/classifier"
	"github.com/yumyai/bgcclass/pkg/errs"
	"github.com/yumyai/bgcclass/pkg/genbank"
	"github.com/yumyai/bgcclass/pkg/handler/request"
	"github.com/yumyai/bgcclass/pkg/handler/types"
	"github.com/yumyai/bgcclass/pkg/middle"
	"github.com/yumyai/bgcclass/pkg/render"
)

// Multipart parts beyond this size are spooled to disk.
const multipartMemory = 8 << 20

// ClassifyHandler serves one fixed backend, as the original per-model routes did.
func (app *AppContext) ClassifyHandler(b classifier.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app.classify(w, r, b)
	}
}

// ClassifyByNameHandler serves POST /api/v1/classify/{backend}.
func (app *AppContext) ClassifyByNameHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("backend")
	b, ok := classifier.ParseBackend(name)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %q", errs.ErrUnknownBackend, name))
		return
	}
	app.classify(w, r, b)
}

func (app *AppContext) classify(w http.ResponseWriter, r *http.Request, b classifier.Backend) {
	if app.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadBytes)
	}

	file, header, err := request.UploadedFile(r, multipartMemory)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", request.ErrBadUpload, err))
		return
	}
	defer file.Close()

	// Reject by name before a single byte is parsed.
	if err := genbank.CheckExtension(header.Filename); err != nil {
		writeError(w, r, err)
		return
	}

	start := time.Now()
	report, err := app.Analysis.Analyze(r.Context(), file, b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pred := report.Predictions[0]

	res := &types.ClassifyResponse{
		Key:        uuid.New().String(),
		BioCluster: report.Cluster,
		BGCClass:   pred.Class,
		Prob:       pred.Probabilities,
		ClassName:  app.className(pred.Class),
		Classes:    app.Classes,
		Backend:    b.String(),
		FileName:   header.Filename,
		CreatedAt:  time.Now(),
	}
	app.Results.Put(res)

	middle.Logger(r.Context(), logger.L()).Debug("Classified cluster",
		zap.String("key", res.Key),
		zap.String("backend", res.Backend),
		zap.String("file", header.Filename),
		zap.Int("proteins", len(report.Cluster)),
		zap.Int("embedded", report.Cluster.Embeddable()),
		zap.Int("class", pred.Class),
		zap.Duration("took", time.Since(start)),
	)

	render.WriteJSON(w, http.StatusOK, res)
}

func (app *AppContext) className(class int) string {
	if class >= 0 && class < len(app.Classes) {
		return app.Classes[class]
	}
	return fmt.Sprintf("class_%d", class)
}
