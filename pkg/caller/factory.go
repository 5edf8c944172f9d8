package caller

import (
	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
	"github.com/visavis-rtc/visavis/pkg/config"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

// ApiFactory builds pion peer connections with a shared engine setup.
type ApiFactory struct {
	api  *webrtc.API
	conf webrtc.Configuration
}

func NewApiFactory(conf config.Webrtc, log *logger.Logger) (*ApiFactory, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}

	i := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, i); err != nil {
		return nil, err
	}

	settings := webrtc.SettingEngine{LoggerFactory: logger.NewPionLogger(log, conf.LogLevel)}
	if conf.IceLite {
		settings.SetLite(conf.IceLite)
	}

	peerConf := webrtc.Configuration{}
	for _, server := range conf.IceServers {
		peerConf.ICEServers = append(peerConf.ICEServers, webrtc.ICEServer{
			URLs:       []string{server.Urls},
			Username:   server.Username,
			Credential: server.Credential,
		})
	}

	return &ApiFactory{
		api: webrtc.NewAPI(
			webrtc.WithMediaEngine(m),
			webrtc.WithInterceptorRegistry(i),
			webrtc.WithSettingEngine(settings),
		),
		conf: peerConf,
	}, nil
}

func (f *ApiFactory) NewPeer() (*webrtc.PeerConnection, error) {
	return f.api.NewPeerConnection(f.conf)
}
