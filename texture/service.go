package texture

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/ggui"
)

// CommandKind is the type of a queued texture mutation.
type CommandKind uint8

const (
	// CommandCreate allocates a texture described by Command.Desc.
	CommandCreate CommandKind = iota
	// CommandUpdate replaces Command.Region of an existing texture with Command.Data.
	CommandUpdate
	// CommandDestroy releases the texture and its handle.
	CommandDestroy
)

func (k CommandKind) String() string {
	switch k {
	case CommandCreate:
		return "create"
	case CommandUpdate:
		return "update"
	case CommandDestroy:
		return "destroy"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is one queued texture mutation.
//
// Desc is set for CommandCreate. Region and Data are set for CommandUpdate;
// Data holds Region.W*Region.H*BytesPerPixel bytes of tightly packed rows.
// The Service keeps no reference to Data once the command has been popped.
type Command struct {
	Kind   CommandKind
	Handle Handle
	Desc   Desc
	Region Region
	Data   []byte
}

// Stats counts queued commands over the lifetime of a Service.
type Stats struct {
	Created     int
	Updated     int
	Destroyed   int
	UploadBytes int
	Live        int
	Pending     int
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("created", s.Created),
		slog.Int("updated", s.Updated),
		slog.Int("destroyed", s.Destroyed),
		slog.Int("upload_bytes", s.UploadBytes),
		slog.Int("live", s.Live),
		slog.Int("pending", s.Pending),
	)
}

// Service allocates texture handles and queues texture commands.
//
// Service is not safe for concurrent use; it is driven from the frame loop.
type Service struct {
	next  Handle
	live  map[Handle]Desc
	queue []Command
	head  int
	stats Stats
}

// NewService creates an empty texture service.
func NewService() *Service {
	return &Service{live: make(map[Handle]Desc)}
}

func (s *Service) push(c Command) {
	if s.head > 0 && s.head == len(s.queue) {
		s.queue = s.queue[:0]
		s.head = 0
	}
	s.queue = append(s.queue, c)
}

// Create reserves a handle for a new texture and queues its creation.
// It panics if desc is invalid.
func (s *Service) Create(desc Desc) Handle {
	if err := desc.Validate(); err != nil {
		panic(err.Error())
	}
	s.next++
	h := s.next
	s.live[h] = desc
	s.push(Command{Kind: CommandCreate, Handle: h, Desc: desc})
	s.stats.Created++

	ggui.Logger().Debug("texture: create queued",
		"handle", h, "format", desc.Format, "width", desc.Width, "height", desc.Height)
	return h
}

// Update queues an upload into region of texture h and returns the zeroed
// staging buffer for it. The caller fills the buffer before the command is
// popped. Update panics if h is not live or region does not fit.
func (s *Service) Update(h Handle, region Region) []byte {
	desc, ok := s.live[h]
	if !ok {
		panic(fmt.Sprintf("texture: update of unknown handle %d", h))
	}
	if !region.Within(desc.Width, desc.Height) {
		panic(fmt.Sprintf("texture: %v outside %dx%d texture %d", region, desc.Width, desc.Height, h))
	}
	data := make([]byte, region.W*region.H*BytesPerPixel(desc.Format))
	s.push(Command{Kind: CommandUpdate, Handle: h, Region: region, Data: data})
	s.stats.Updated++
	s.stats.UploadBytes += len(data)
	return data
}

// Destroy queues the destruction of texture h. The handle is invalid for
// further updates immediately. Destroy panics if h is not live.
func (s *Service) Destroy(h Handle) {
	if _, ok := s.live[h]; !ok {
		panic(fmt.Sprintf("texture: destroy of unknown handle %d", h))
	}
	delete(s.live, h)
	s.push(Command{Kind: CommandDestroy, Handle: h})
	s.stats.Destroyed++

	ggui.Logger().Debug("texture: destroy queued", "handle", h)
}

// Pop removes and returns the oldest queued command.
func (s *Service) Pop() (Command, bool) {
	if s.head == len(s.queue) {
		return Command{}, false
	}
	c := s.queue[s.head]
	s.queue[s.head] = Command{}
	s.head++
	return c, true
}

// Pending returns the number of queued commands.
func (s *Service) Pending() int {
	return len(s.queue) - s.head
}

// Desc returns the description of a live texture.
func (s *Service) Desc(h Handle) (Desc, bool) {
	d, ok := s.live[h]
	return d, ok
}

// Stats returns lifetime command counters.
func (s *Service) Stats() Stats {
	st := s.stats
	st.Live = len(s.live)
	st.Pending = s.Pending()
	return st
}
