package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-stripfx/internal/config"
	diag "github.com/coreman2200/funtimes-stripfx/internal/diagnostics"
	"github.com/coreman2200/funtimes-stripfx/internal/effects"
	"github.com/coreman2200/funtimes-stripfx/internal/strip"
	"github.com/coreman2200/funtimes-stripfx/internal/tests"
)

// State ties the effect engine to the websocket surface. The render loop
// and every control message serialize on mu, so the engine and frame
// buffer keep their single-writer contract.
type State struct {
	mu  sync.RWMutex
	FB  *strip.FrameBuffer
	Eng *effects.Engine
	Tx  strip.Transmitter

	ConfigPath    string
	CurrentDriver string

	frameID     uint64
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool

	testRunner *tests.Runner
}

func NewState(fb *strip.FrameBuffer, eng *effects.Engine, tx strip.Transmitter, driver string) *State {
	return &State{
		FB:            fb,
		Eng:           eng,
		Tx:            tx,
		CurrentDriver: driver,
		startTime:     time.Now(),
		clients:       map[*websocket.Conn]bool{},
		diagClients:   map[*websocket.Conn]bool{},
	}
}

// RunRenderLoop drives the engine (or an active test pattern) forever,
// sleeping whatever inter-frame delay each tick asks for.
func (s *State) RunRenderLoop() {
	for {
		s.mu.Lock()
		delay := 50 * time.Millisecond

		if s.testRunner != nil {
			if s.testRunner.Step(s.FB) {
				if err := s.FB.Send(s.Tx); err != nil {
					log.Debug().Err(err).Msg("test frame transmit")
				}
			} else {
				s.testRunner = nil
				s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: "TEST.DONE", Summary: "Test pattern complete"})
			}
		} else {
			delay = s.Eng.Tick(time.Now())
		}

		s.frameID++
		buf := append([]byte{}, s.FB.RGB()...)
		s.mu.Unlock()

		s.broadcastFrame(buf)
		time.Sleep(delay)
	}
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.sendSnapshot(conn)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.diagClients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
		s.sendSnapshot(conn)
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id":   s.frameID,
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"leds":       s.FB.Len(),
		"effect":     s.Eng.Effect().String(),
		"auto_cycle": s.Eng.AutoCycle(),
		"brightness": s.Eng.Brightness(),
		"speed":      s.Eng.Speed(),
		"driver":     s.CurrentDriver,
		"est_amps":   strip.EstimateCurrent(s.FB.RGB()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) applyControl(msg map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := msg["effect"].(string); ok {
		if e, known := effects.EffectByName(v); known {
			s.Eng.SetEffect(e)
		} else {
			s.pushDiag(diag.Diagnostic{
				Severity: diag.Warn, Code: "CTRL.EFFECT.UNKNOWN", Summary: "Unknown effect name",
				Evidence: map[string]any{"name": v},
			})
		}
	}
	if v, ok := msg["brightness"].(float64); ok {
		s.Eng.SetBrightness(uint8(clamp(v, 0, 100)))
	}
	if v, ok := msg["speed"].(float64); ok {
		s.Eng.SetSpeed(uint8(clamp(v, 1, 100)))
	}
	if v, ok := msg["auto_cycle"].(bool); ok {
		s.Eng.SetAutoCycle(v)
	}
	if v, ok := msg["cycle_ms"].(float64); ok {
		s.Eng.SetCycleDuration(time.Duration(v) * time.Millisecond)
	}
	if v, ok := msg["colorspace"].(string); ok {
		if cs, known := effects.SpaceByName(v); known {
			s.Eng.SetColorSpace(cs)
		} else {
			s.pushDiag(diag.Diagnostic{
				Severity: diag.Warn, Code: "CTRL.SPACE.UNKNOWN", Summary: "Unknown color space",
				Evidence: map[string]any{"name": v},
			})
		}
	}
	if v, ok := msg["off"].(bool); ok && v {
		s.testRunner = nil
		s.Eng.Off()
	}
	if v, ok := msg["runTest"].(string); ok {
		s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: "TEST.RUNNING", Summary: "Running test pattern", Detail: v})
		known := false
		for _, k := range tests.Kinds() {
			if v == string(k) {
				s.testRunner = tests.NewRunner(tests.Plan{Kind: k})
				known = true
				break
			}
		}
		if !known {
			s.pushDiag(diag.Diagnostic{
				Severity: diag.Warn, Code: "TEST.UNKNOWN", Summary: "Unknown test name",
				Evidence: map[string]any{"name": v},
			})
		}
	}

	// Persist config after any change
	s.saveConfig()
}

func (s *State) saveConfig() {
	if s.ConfigPath == "" {
		return
	}
	cfg := config.Default()
	cfg.Driver = s.CurrentDriver
	cfg.Leds = s.FB.Len()
	cfg.Brightness = int(s.Eng.Brightness())
	cfg.Speed = int(s.Eng.Speed())
	cfg.Effect = s.Eng.Effect().String()
	cfg.ColorSpace = s.Eng.Space().String()
	cfg.AutoCycle = s.Eng.AutoCycle()
	_ = config.Save(s.ConfigPath, cfg)
}

func (s *State) sendSnapshot(conn *websocket.Conn) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := map[string]any{
		"leds":       s.FB.Len(),
		"effect":     s.Eng.Effect().String(),
		"effects":    effects.Names(),
		"colorspace": s.Eng.Space().String(),
		"auto_cycle": s.Eng.AutoCycle(),
		"brightness": s.Eng.Brightness(),
		"speed":      s.Eng.Speed(),
		"driver":     s.CurrentDriver,
	}
	b, _ := json.Marshal(snap)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (s *State) broadcastFrame(rgb []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: s.frameID, RGB: rgb})
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (s *State) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
