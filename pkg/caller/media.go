package caller

import (
	"context"
	"time"

	"github.com/pion/webrtc/v3"
	"github.com/pion/webrtc/v3/pkg/media"
)

const (
	videoFrameTime = 33 * time.Millisecond
	audioFrameTime = 20 * time.Millisecond
)

// Media provides the local stream of a headless caller: a pair of
// synthetic audio/video tracks standing in for device capture.
// The stream is shared between peer sessions and owned by the app,
// sessions only borrow the tracks.
type Media struct {
	video *webrtc.TrackLocalStaticSample
	audio *webrtc.TrackLocalStaticSample
}

func NewMedia() (*Media, error) {
	video, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", "visavis-video")
	if err != nil {
		return nil, err
	}
	audio, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", "visavis-audio")
	if err != nil {
		return nil, err
	}
	return &Media{video: video, audio: audio}, nil
}

func (m *Media) Tracks() []webrtc.TrackLocal {
	return []webrtc.TrackLocal{m.video, m.audio}
}

// Pump feeds placeholder samples into the tracks until the context ends.
// Samples written before any peer is bound are discarded by the engine.
func (m *Media) Pump(ctx context.Context) {
	go m.pump(ctx, m.video, videoFrameTime)
	go m.pump(ctx, m.audio, audioFrameTime)
}

func (m *Media) pump(ctx context.Context, track *webrtc.TrackLocalStaticSample, frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	blank := media.Sample{Data: []byte{0}, Duration: frame}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = track.WriteSample(blank)
		}
	}
}
