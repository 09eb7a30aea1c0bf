package webapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/bundle"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/studio"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.opts.Version})
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.orch.Snapshot())
}

type requestSummary struct {
	HasModelImage   bool   `json:"hasModelImage"`
	HasProductImage bool   `json:"hasProductImage"`
	SceneContext    string `json:"sceneContext"`
}

func (s *Server) handleSetRequest(w http.ResponseWriter, r *http.Request) {
	var req studio.CampaignRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var err error
	if req.ModelImage, err = s.normalizeImage(req.ModelImage); err != nil {
		httpError(w, http.StatusBadRequest, "invalid modelImage: "+err.Error())
		return
	}
	if req.ProductImage, err = s.normalizeImage(req.ProductImage); err != nil {
		httpError(w, http.StatusBadRequest, "invalid productImage: "+err.Error())
		return
	}
	req.SceneContext = strings.TrimSpace(req.SceneContext)

	s.orch.SetRequest(req)
	respondJSON(w, http.StatusOK, requestSummary{
		HasModelImage:   req.ModelImage != "",
		HasProductImage: req.ProductImage != "",
		SceneContext:    req.SceneContext,
	})
}

// normalizeImage decodes a payload, downscales it and re-encodes it as a data
// URL. An empty payload stays empty.
func (s *Server) normalizeImage(payload string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", nil
	}
	img, err := imagedata.Parse(payload)
	if err != nil {
		return "", err
	}
	img, err = imagedata.Downscale(img, s.opts.MaxReferenceDimension)
	if err != nil {
		return "", err
	}
	return img.DataURL(), nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	done, err := s.orch.Start(backgroundContext(r))
	switch {
	case errors.Is(err, studio.ErrBusy):
		httpError(w, http.StatusConflict, "campaign generation already in progress")
		return
	case errors.Is(err, studio.ErrInvalidArgument):
		httpError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, "failed to start generation", err.Error())
		return
	}

	if s.opts.Wait {
		// The outcome is reflected in the snapshot's status and error.
		<-done
		respondJSON(w, http.StatusOK, s.orch.Snapshot())
		return
	}
	respondJSON(w, http.StatusAccepted, s.orch.Snapshot())
}

type previewResponse struct {
	Shot  studio.ShotView `json:"shot"`
	Error string          `json:"error,omitempty"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	done, err := s.orch.StartPreview(backgroundContext(r), id)
	switch {
	case errors.Is(err, studio.ErrUnknownShot):
		httpError(w, http.StatusNotFound, "shot not found")
		return
	case errors.Is(err, studio.ErrInvalidArgument):
		httpError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		httpError(w, http.StatusInternalServerError, "failed to start preview", err.Error())
		return
	}

	status := http.StatusAccepted
	var resp previewResponse
	if s.opts.Wait {
		status = http.StatusOK
		if err := <-done; err != nil {
			var opErr *studio.Error
			if errors.As(err, &opErr) {
				resp.Error = opErr.Message
			} else {
				resp.Error = err.Error()
			}
		}
	}
	resp.Shot, _ = s.orch.Snapshot().Shot(id)
	respondJSON(w, status, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap := s.orch.Snapshot()
	var buf bytes.Buffer
	err := bundle.WriteZip(&buf, snap, zip.Deflate)
	if errors.Is(err, bundle.ErrNoShots) {
		httpError(w, http.StatusConflict, "no campaign to export")
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to build export", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="campaign.zip"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debug().Err(err).Msg("Failed to write export")
	}
}

type credentialResponse struct {
	Available bool `json:"available"`
}

func (s *Server) handleCredential(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, credentialResponse{Available: s.gate.HasCredential()})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	key := strings.TrimSpace(body.APIKey)
	if key == "" {
		httpError(w, http.StatusBadRequest, "apiKey is required")
		return
	}

	s.gate.ConnectWith(r.Context(), auth.StaticSelector{Keyring: s.keyring, Key: key})
	respondJSON(w, http.StatusOK, credentialResponse{Available: s.gate.HasCredential()})
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]studio.Notice{"notices": s.notices.Drain()})
}
