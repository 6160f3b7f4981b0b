package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

var (
	errOggMagic   = errors.New("ogg: invalid capture pattern")
	errOggVersion = errors.New("ogg: unsupported version")
	errOggCodec   = errors.New("ogg: unknown codec (not Vorbis or Opus)")
	errOpusHead   = errors.New("opus: invalid header")
)

const (
	oggHeaderSize = 27
	// Largest possible page: header, 255 lacing values, 255*255 body.
	oggMaxPage = oggHeaderSize + 255 + 255*255
)

// oggPage is one parsed page. Packets are complete once joined with any
// partial packet carried over from the previous page; Partial is the
// unfinished tail that continues on the next page.
type oggPage struct {
	Granule int64
	Packets [][]byte
	Partial []byte
}

// readOggPage reads one page from r.
func readOggPage(r io.Reader) (*oggPage, error) {
	var hdr [oggHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "OggS" {
		return nil, errOggMagic
	}
	if hdr[4] != 0 {
		return nil, errOggVersion
	}

	segments := make([]byte, hdr[26])
	if _, err := io.ReadFull(r, segments); err != nil {
		return nil, err
	}
	size := 0
	for _, s := range segments {
		size += int(s)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	page := &oggPage{Granule: int64(binary.LittleEndian.Uint64(hdr[6:14]))} //nolint:gosec // granule is signed on the wire
	start, off := 0, 0
	for _, s := range segments {
		off += int(s)
		if s < 255 {
			page.Packets = append(page.Packets, body[start:off])
			start = off
		}
	}
	if start < off {
		page.Partial = body[start:off]
	}
	return page, nil
}

// oggCodec decodes the packets of one logical stream.
type oggCodec interface {
	// header consumes a header packet and reports whether audio may follow.
	header(packet []byte) (done bool, err error)
	// decode returns interleaved samples for one audio packet.
	decode(packet []byte) ([]float32, error)
	sampleRate() int
	channels() int
	// preSkip is the number of leading samples to drop.
	preSkip() int
	reset()
}

// detectOggCodec picks a codec from the first packet of the stream.
func detectOggCodec(first []byte) (oggCodec, error) {
	switch {
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		c := &vorbisCodec{dec: &vorbis.Decoder{}}
		if _, err := c.header(first); err != nil {
			return nil, err
		}
		return c, nil
	case len(first) >= 8 && string(first[:8]) == "OpusHead":
		return newOpusCodec(first)
	default:
		return nil, errOggCodec
	}
}

type vorbisCodec struct {
	dec *vorbis.Decoder
}

func (c *vorbisCodec) header(packet []byte) (bool, error) {
	if err := c.dec.ReadHeader(packet); err != nil {
		return false, err
	}
	return c.dec.HeadersRead(), nil
}

func (c *vorbisCodec) decode(packet []byte) ([]float32, error) { return c.dec.Decode(packet) }
func (c *vorbisCodec) sampleRate() int                         { return c.dec.SampleRate() }
func (c *vorbisCodec) channels() int                           { return c.dec.Channels() }
func (c *vorbisCodec) preSkip() int                            { return 0 }
func (c *vorbisCodec) reset()                                  { c.dec.Clear() }

// Opus always decodes at 48 kHz; a packet holds at most 120 ms.
const (
	opusRate       = 48000
	opusMaxSamples = opusRate * 120 / 1000
)

type opusCodec struct {
	dec  *opus.Decoder
	ch   int
	skip int
	buf  []float32
}

// parseOpusHead reads the channel count and pre-skip from an OpusHead
// packet.
func parseOpusHead(packet []byte) (channels, preSkip int, err error) {
	if len(packet) < 19 || string(packet[:8]) != "OpusHead" {
		return 0, 0, errOpusHead
	}
	if packet[8] != 1 {
		return 0, 0, fmt.Errorf("%w: version %d", errOpusHead, packet[8])
	}
	channels = int(packet[9])
	if channels < 1 || channels > 2 {
		return 0, 0, fmt.Errorf("%w: %d channels", errOpusHead, channels)
	}
	return channels, int(binary.LittleEndian.Uint16(packet[10:12])), nil
}

func newOpusCodec(head []byte) (*opusCodec, error) {
	ch, skip, err := parseOpusHead(head)
	if err != nil {
		return nil, err
	}
	dec, err := opus.NewDecoder(opusRate, ch)
	if err != nil {
		return nil, err
	}
	return &opusCodec{dec: dec, ch: ch, skip: skip, buf: make([]float32, opusMaxSamples*ch)}, nil
}

// header expects the OpusTags packet; OpusHead was read by newOpusCodec.
func (c *opusCodec) header(packet []byte) (bool, error) {
	if len(packet) < 8 || string(packet[:8]) != "OpusTags" {
		return false, errOpusHead
	}
	return true, nil
}

func (c *opusCodec) decode(packet []byte) ([]float32, error) {
	n, err := c.dec.DecodeFloat32(packet, c.buf)
	if err != nil {
		return nil, err
	}
	return c.buf[:n*c.ch], nil
}

func (c *opusCodec) sampleRate() int { return opusRate }
func (c *opusCodec) channels() int   { return c.ch }
func (c *opusCodec) preSkip() int    { return c.skip }
func (c *opusCodec) reset()          {}

// oggStream decodes an Ogg Vorbis or Ogg Opus stream into a
// beep.StreamSeekCloser.
type oggStream struct {
	src       io.ReadSeekCloser
	codec     oggCodec
	dataStart int64
	total     int

	queue   [][]byte
	partial []byte
	pcm     []float32
	skip    int
	pos     int
	err     error
}

func decodeOgg(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	s := &oggStream{src: rc}

	first, err := s.nextPacket()
	if err != nil {
		return nil, beep.Format{}, err
	}
	if s.codec, err = detectOggCodec(first); err != nil {
		return nil, beep.Format{}, err
	}
	for done := false; !done; {
		packet, err := s.nextPacket()
		if err != nil {
			return nil, beep.Format{}, err
		}
		if done, err = s.codec.header(packet); err != nil {
			return nil, beep.Format{}, err
		}
	}

	// Audio always starts on a fresh page.
	start, err := rc.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s.dataStart = start
	s.queue, s.partial = nil, nil
	s.skip = s.codec.preSkip()

	last, err := lastGranule(rc, start)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s.total = max(int(last)-s.codec.preSkip(), 0)
	if _, err := rc.Seek(start, io.SeekStart); err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(s.codec.sampleRate()),
		NumChannels: s.codec.channels(),
		Precision:   2,
	}
	return s, format, nil
}

// nextPacket returns the next complete packet, reading pages as needed.
func (s *oggStream) nextPacket() ([]byte, error) {
	for len(s.queue) == 0 {
		page, err := readOggPage(s.src)
		if err != nil {
			return nil, err
		}
		packets := page.Packets
		if len(s.partial) > 0 {
			if len(packets) > 0 {
				packets[0] = append(s.partial, packets[0]...)
				s.partial = nil
			} else {
				s.partial = append(s.partial, page.Partial...)
				continue
			}
		}
		s.queue = packets
		s.partial = append(s.partial, page.Partial...)
	}
	packet := s.queue[0]
	s.queue = s.queue[1:]
	return packet, nil
}

// lastGranule finds the granule position of the final page: the total
// sample count, including any pre-skip.
func lastGranule(rs io.ReadSeeker, dataStart int64) (int64, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	from := max(end-oggMaxPage, dataStart)
	if _, err := rs.Seek(from, io.SeekStart); err != nil {
		return 0, err
	}
	tail, err := io.ReadAll(rs)
	if err != nil {
		return 0, err
	}
	for i := bytes.LastIndex(tail, []byte("OggS")); i >= 0; i = bytes.LastIndex(tail[:i], []byte("OggS")) {
		if i+14 <= len(tail) && tail[i+4] == 0 {
			g := int64(binary.LittleEndian.Uint64(tail[i+6 : i+14])) //nolint:gosec // granule is signed on the wire
			if g >= 0 {
				return g, nil
			}
		}
	}
	return 0, nil
}

func (s *oggStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	channels := s.codec.channels()
	n := 0
	for n < len(samples) {
		if len(s.pcm) >= channels {
			if s.skip > 0 {
				drop := min(s.skip, len(s.pcm)/channels)
				s.pcm = s.pcm[drop*channels:]
				s.skip -= drop
				continue
			}
			if channels == 1 {
				samples[n] = [2]float64{float64(s.pcm[0]), float64(s.pcm[0])}
			} else {
				samples[n] = [2]float64{float64(s.pcm[0]), float64(s.pcm[1])}
			}
			s.pcm = s.pcm[channels:]
			s.pos++
			n++
			continue
		}

		packet, err := s.nextPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.err = err
			}
			return n, n > 0
		}
		pcm, err := s.codec.decode(packet)
		if err != nil {
			continue // corrupt packets are skipped
		}
		s.pcm = pcm
	}
	return n, true
}

func (s *oggStream) Err() error { return s.err }

func (s *oggStream) Len() int { return s.total }

func (s *oggStream) Position() int { return s.pos }

// Seek rewinds to the first audio page and decodes forward to p.
func (s *oggStream) Seek(p int) error {
	p = min(max(p, 0), s.total)
	if _, err := s.src.Seek(s.dataStart, io.SeekStart); err != nil {
		return err
	}
	s.codec.reset()
	s.queue, s.partial, s.pcm = nil, nil, nil
	s.pos, s.err = 0, nil
	s.skip = s.codec.preSkip()

	var buf [512][2]float64
	for s.pos < p {
		want := min(p-s.pos, len(buf))
		if _, ok := s.Stream(buf[:want]); !ok {
			break
		}
	}
	return s.err
}

func (s *oggStream) Close() error { return s.src.Close() }
