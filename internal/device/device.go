// Package device implements TAPPER's core Device object: the hardware
// handles, identity, mutual-exclusion guards and message queues shared by
// every activity in the supervisor.
package device

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	pn532 "github.com/ZaparooProject/go-pn532"

	"github.com/hardwario/tapper/internal/config"
	"github.com/hardwario/tapper/internal/hal"
	"github.com/hardwario/tapper/internal/logger"
	"github.com/hardwario/tapper/internal/pn532spi"
	"go.uber.org/zap"
)

// Exit codes for startup-fatal MQTT connection failures.
const (
	ExitMQTTTimeout = 110
	ExitMQTTFailure = 113
)

// OutboundMessage is one (topic_suffix, payload) pair awaiting publish.
type OutboundMessage struct {
	Suffix  string
	Payload map[string]interface{}
}

// Device owns every hardware handle and shared resource the activities
// coordinate over. Exactly one instance exists per process.
type Device struct {
	id string

	hal  hal.GPIOProvider
	pins hal.PinMap
	nfc  *pn532.Device
	spi  *pn532spi.Transport

	mqttClient mqtt.Client

	nfcMu     sync.Mutex
	buzzerMu  sync.Mutex
	ledMu     sync.Mutex
	relayMu   sync.Mutex
	publishMu sync.Mutex

	ledColor Color

	outbound chan OutboundMessage
	inbound  chan string

	log *zap.Logger
}

// New constructs the Device per spec §4.1's numbered construction sequence.
// gp is the platform-specific GPIO backend (real hardware or a Mock),
// selected by the caller the way EdgeFlow's per-platform hal_init files do.
// On MQTT connect failure it honors the cleanup buzzer-off path and returns
// an error wrapping the exit code the caller should use.
func New(cfg *config.Config, gp hal.GPIOProvider, spiBus string) (*Device, error) {
	pins := hal.DefaultPinMap()
	if cfg.Legacy {
		pins = hal.LegacyPinMap()
	}

	id, err := deviceID(cfg.Device.IDOverride)
	if err != nil {
		return nil, err
	}
	d := &Device{
		id:       id,
		hal:      gp,
		pins:     pins,
		outbound: make(chan OutboundMessage, 256),
		inbound:  make(chan string, 64),
		ledColor: ColorOff,
		log:      logger.WithComponent("device"),
	}

	// 1. Initialize the PN532 front-end over SPI; read firmware version for diagnostics.
	transport, err := pn532spi.New(spiBus)
	if err != nil {
		return nil, fmt.Errorf("device: failed to open PN532 SPI transport: %w", err)
	}
	d.spi = transport

	nfc, err := pn532.New(transport)
	if err != nil {
		return nil, fmt.Errorf("device: failed to initialize PN532: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if initErr := nfc.InitContext(ctx); initErr != nil {
		d.log.Warn("PN532 init failed, continuing without firmware diagnostics", zap.Error(initErr))
	} else if fw, fwErr := nfc.GetFirmwareVersionContext(ctx); fwErr == nil {
		d.log.Info("PN532 firmware", zap.String("version", fw.Version))
	}
	cancel()
	d.nfc = nfc

	// 2. Configure buzzer and relay to inactive.
	if err := d.hal.SetMode(pins.Buzzer, hal.Output); err != nil {
		return nil, fmt.Errorf("device: failed to configure buzzer pin: %w", err)
	}
	if err := d.hal.DigitalWrite(pins.Buzzer, false); err != nil {
		return nil, fmt.Errorf("device: failed to set buzzer inactive: %w", err)
	}
	if err := d.hal.SetMode(pins.Relay, hal.Output); err != nil {
		return nil, fmt.Errorf("device: failed to configure relay pin: %w", err)
	}
	if err := d.hal.DigitalWrite(pins.Relay, false); err != nil {
		return nil, fmt.Errorf("device: failed to set relay inactive: %w", err)
	}

	// 3. Construct the tamper input without internal pull-up.
	if err := d.hal.SetMode(pins.Tamper, hal.Input); err != nil {
		return nil, fmt.Errorf("device: failed to configure tamper pin: %w", err)
	}
	if err := d.hal.SetPull(pins.Tamper, hal.PullNone); err != nil {
		return nil, fmt.Errorf("device: failed to configure tamper pull: %w", err)
	}

	// 4. Construct the RGB LED; initial color = off.
	for _, p := range []int{pins.LEDRed, pins.LEDGreen, pins.LEDBlue} {
		if err := d.hal.SetMode(p, hal.Output); err != nil {
			return nil, fmt.Errorf("device: failed to configure LED pin %d: %w", p, err)
		}
	}
	if err := d.setLEDLocked(ColorOff); err != nil {
		return nil, fmt.Errorf("device: failed to set LED off: %w", err)
	}

	// 5. Guards are the struct's zero-value mutexes; the queues were made above.

	// 6/7. Construct the MQTT client and connect.
	if err := d.connectMQTT(cfg); err != nil {
		d.cleanupOutputs()
		return nil, err
	}

	// 8. Publish event/boot with an empty payload.
	d.schedule("event/boot", map[string]interface{}{})

	return d, nil
}

// NewBench constructs a Device without a PN532 front-end or MQTT broker
// connection, for exercising guarded-resource and activity logic against a
// GPIOProvider alone: tests, and bench rigs with no network present.
func NewBench(gp hal.GPIOProvider, pins hal.PinMap, id string) *Device {
	return &Device{
		id:       id,
		hal:      gp,
		pins:     pins,
		ledColor: ColorOff,
		outbound: make(chan OutboundMessage, 256),
		inbound:  make(chan string, 64),
		log:      logger.WithComponent("device"),
	}
}

// ID returns the device's stable identity. Idempotent, pure.
func (d *Device) ID() string { return d.id }

// deviceID derives the device identity from the primary network interface's
// MAC address, unless overridden by configuration (bench/dev mode, or a
// board with no wired interface). Fails rather than falling back to a
// placeholder address: an unidentified device must not silently come up
// under a shared identity.
func deviceID(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("device: failed to enumerate network interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) != 6 {
			continue
		}
		return iface.HardwareAddr.String(), nil
	}
	return "", errors.New("device: no hardware-addressed network interface found and no id_override configured")
}

// Tamper returns the current sampled tamper state. Positive polarity:
// true means the enclosure is tampered. If the input line cannot be read,
// fails closed and reports tampered.
func (d *Device) Tamper() bool {
	active, err := d.hal.DigitalRead(d.pins.Tamper)
	if err != nil {
		d.log.Warn("tamper read failed, failing closed", zap.Error(err))
		return true
	}
	return active
}

// Schedule enqueues a message to the outbound queue. Never blocks on I/O;
// if the queue is saturated, the oldest cannot be dropped without violating
// FIFO ordering, so Schedule blocks on the channel send — under the
// unbounded-FIFO contract this only happens if the broker link has stalled
// far longer than any steady-state operation requires.
func (d *Device) Schedule(topicSuffix string, payload map[string]interface{}) {
	d.schedule(topicSuffix, payload)
}

func (d *Device) schedule(topicSuffix string, payload map[string]interface{}) {
	d.outbound <- OutboundMessage{Suffix: topicSuffix, Payload: payload}
}

// Outbound exposes the outbound queue for the MQTT broker link's publisher.
func (d *Device) Outbound() <-chan OutboundMessage { return d.outbound }

// Inbound exposes the inbound queue for the request processor.
func (d *Device) Inbound() <-chan string { return d.inbound }

// pushInbound is called by the MQTT broker link's message handler.
func (d *Device) pushInbound(raw string) {
	d.inbound <- raw
}

// Publish synchronously publishes a message: acquires the MQTT guard,
// stamps timestamp at publish time, serializes, hands to the MQTT client.
func (d *Device) Publish(topicSuffix string, payload map[string]interface{}) error {
	d.publishMu.Lock()
	defer d.publishMu.Unlock()

	out := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["timestamp"] = float64(time.Now().UnixNano()) / 1e9

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("device: failed to marshal payload: %w", err)
	}

	topic := fmt.Sprintf("tapper/%s/%s", d.id, topicSuffix)
	token := d.mqttClient.Publish(topic, 1, false, data)
	token.Wait()
	return token.Error()
}

// ReadTag delegates to the PN532 front-end, holding the NFC guard.
func (d *Device) ReadTag(timeout time.Duration) ([]byte, error) {
	d.nfcMu.Lock()
	defer d.nfcMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tag, err := d.nfc.DetectTagContext(ctx)
	if err != nil {
		if err == pn532.ErrNoTagDetected || err == pn532.ErrTimeout {
			return nil, nil
		}
		return nil, err
	}
	if tag == nil {
		return nil, nil
	}
	return tag.UIDBytes, nil
}

// setLEDLocked drives the LED to a named color. Callers holding the LED
// guard already (pattern execution) call this directly; Buzzer/unguarded
// callers should go through SetLED.
func (d *Device) setLEDLocked(c Color) error {
	t, ok := triplet(c)
	if !ok {
		return nil
	}
	if err := d.hal.DigitalWrite(d.pins.LEDRed, t.r); err != nil {
		return err
	}
	if err := d.hal.DigitalWrite(d.pins.LEDGreen, t.g); err != nil {
		return err
	}
	if err := d.hal.DigitalWrite(d.pins.LEDBlue, t.b); err != nil {
		return err
	}
	d.ledColor = c
	return nil
}

// SetLED acquires the LED guard and sets a named color.
func (d *Device) SetLED(c Color) error {
	d.ledMu.Lock()
	defer d.ledMu.Unlock()
	return d.setLEDLocked(c)
}

// SetLEDLocked sets a named color without acquiring the LED guard. Callers
// must already hold LEDGuard() (e.g. the Tamper Monitor's combined burst).
func (d *Device) SetLEDLocked(c Color) error { return d.setLEDLocked(c) }

// SetBuzzerLocked drives the buzzer line without acquiring the buzzer
// guard. Callers must already hold BuzzerGuard().
func (d *Device) SetBuzzerLocked(on bool) error { return d.hal.DigitalWrite(d.pins.Buzzer, on) }

// LEDGuard, BuzzerGuard and RelayGuard expose the three output guards for
// activities that need to hold them across a short multi-step operation
// (the Tag Poller's buzzer+LED burst, pattern execution).
func (d *Device) LEDGuard() *sync.Mutex    { return &d.ledMu }
func (d *Device) BuzzerGuard() *sync.Mutex { return &d.buzzerMu }
func (d *Device) RelayGuard() *sync.Mutex  { return &d.relayMu }

// CurrentLED returns the last color set, for save/restore in the tag-ack burst.
func (d *Device) CurrentLED() Color { return d.ledColor }

// Buzzer returns an actuator driving the buzzer GPIO line.
func (d *Device) Buzzer() actuator { return buzzerActuator{d: d} }

// LEDActuator returns an actuator that drives the LED to a fixed color on
// On() and off on Off(), for pattern execution.
func (d *Device) LEDActuator(color Color) actuator { return ledActuator{d: d, color: color} }

// RunPattern runs a named waveform against an actuator. Exposed at the
// device level so both visual and acoustic sub-actions share one implementation.
func RunPattern(name string, a actuator) error { return runPattern(name, a) }

// SetRelay acquires the relay guard and drives the relay line.
func (d *Device) SetRelay(active bool) error {
	d.relayMu.Lock()
	defer d.relayMu.Unlock()
	return d.hal.DigitalWrite(d.pins.Relay, active)
}

// PulseRelay activates the relay, holds it for dur, then deactivates it,
// holding the relay guard for the whole operation.
func (d *Device) PulseRelay(dur time.Duration) error {
	d.relayMu.Lock()
	defer d.relayMu.Unlock()
	if err := d.hal.DigitalWrite(d.pins.Relay, true); err != nil {
		return err
	}
	time.Sleep(dur)
	return d.hal.DigitalWrite(d.pins.Relay, false)
}

// SetBuzzer acquires the buzzer guard and drives the buzzer line.
func (d *Device) SetBuzzer(on bool) error {
	d.buzzerMu.Lock()
	defer d.buzzerMu.Unlock()
	return d.hal.DigitalWrite(d.pins.Buzzer, on)
}

// TagAck runs the fixed buzzer-then-LED acknowledgement burst described in
// spec §4.2. Lock order is buzzer, then LED; released in reverse.
func (d *Device) TagAck() {
	d.buzzerMu.Lock()
	defer d.buzzerMu.Unlock()
	d.ledMu.Lock()
	defer d.ledMu.Unlock()

	saved := d.ledColor
	_ = d.setLEDLocked(ColorOff)
	time.Sleep(125 * time.Millisecond)
	_ = d.setLEDLocked(ColorYellow)
	_ = d.hal.DigitalWrite(d.pins.Buzzer, true)
	time.Sleep(125 * time.Millisecond)
	_ = d.setLEDLocked(saved)
	_ = d.hal.DigitalWrite(d.pins.Buzzer, false)
	time.Sleep(125 * time.Millisecond)
}

// cleanupOutputs turns the buzzer and relay off, best-effort, used both on
// construction failure and supervisor shutdown (spec §7).
func (d *Device) cleanupOutputs() {
	if d.hal == nil {
		return
	}
	_ = d.hal.DigitalWrite(d.pins.Buzzer, false)
	_ = d.hal.DigitalWrite(d.pins.Relay, false)
}

// Shutdown disconnects MQTT, turns the buzzer and relay off, and releases
// the GPIO provider and NFC transport.
func (d *Device) Shutdown() {
	d.cleanupOutputs()
	if d.mqttClient != nil && d.mqttClient.IsConnected() {
		d.mqttClient.Disconnect(250)
	}
	if d.nfc != nil {
		_ = d.nfc.Close()
	}
	if d.hal != nil {
		_ = d.hal.Close()
	}
}

func (d *Device) connectMQTT(cfg *config.Config) error {
	opts := mqtt.NewClientOptions()
	broker := fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port)
	if cfg.MQTT.TLS.Enabled() {
		broker = fmt.Sprintf("ssl://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port)
		tlsConfig, err := buildTLSConfig(cfg.MQTT.TLS)
		if err != nil {
			return fmt.Errorf("device: failed to build TLS config: %w", err)
		}
		opts.SetTLSConfig(tlsConfig)
	}
	opts.AddBroker(broker)
	opts.SetClientID(d.id)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetKeepAlive(cfg.MQTT.KeepAlive)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		topic := fmt.Sprintf("tapper/%s/control/request", d.id)
		c.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
			d.pushInbound(string(msg.Payload()))
		})
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		d.log.Warn("MQTT connection lost", zap.Error(err))
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	waitOK := token.WaitTimeout(cfg.MQTT.ConnectWait)
	if !waitOK {
		return fatalExit{code: ExitMQTTTimeout, err: fmt.Errorf("device: MQTT connect timed out after %s", cfg.MQTT.ConnectWait)}
	}
	if err := token.Error(); err != nil {
		return fatalExit{code: ExitMQTTFailure, err: fmt.Errorf("device: MQTT connect failed: %w", err)}
	}
	d.mqttClient = client
	return nil
}

func buildTLSConfig(t config.TLS) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if t.CAFile != "" {
		caCert, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = pool
	}

	if t.CertFile != "" && t.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client keypair: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// fatalExit carries a process exit code alongside the startup-fatal error
// that caused it, per spec §4.1 step 7.
type fatalExit struct {
	code int
	err  error
}

func (f fatalExit) Error() string { return f.err.Error() }
func (f fatalExit) Unwrap() error { return f.err }

// ExitCode extracts the process exit code from a fatal construction error,
// if any. Returns (0, false) for errors that are not startup-fatal.
func ExitCode(err error) (int, bool) {
	var fe fatalExit
	if errors.As(err, &fe) {
		return fe.code, true
	}
	return 0, false
}
