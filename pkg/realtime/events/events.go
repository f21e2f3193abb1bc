package events

import "encoding/json"

// Type identifies a realtime protocol event.
type Type string

const (
	// Client events
	TypeSessionUpdate            Type = "session.update"
	TypeInputAudioBufferAppend   Type = "input_audio_buffer.append"
	TypeInputAudioBufferCommit   Type = "input_audio_buffer.commit"
	TypeInputAudioBufferClear    Type = "input_audio_buffer.clear"
	TypeConversationItemCreate   Type = "conversation.item.create"
	TypeConversationItemTruncate Type = "conversation.item.truncate"
	TypeConversationItemDelete   Type = "conversation.item.delete"
	TypeResponseCreate           Type = "response.create"
	TypeResponseCancel           Type = "response.cancel"

	// Server events
	TypeError                                     Type = "error"
	TypeSessionCreated                            Type = "session.created"
	TypeSessionUpdated                            Type = "session.updated"
	TypeConversationCreated                       Type = "conversation.created"
	TypeConversationItemCreated                   Type = "conversation.item.created"
	TypeConversationItemTranscriptionCompleted    Type = "conversation.item.input_audio_transcription.completed"
	TypeConversationItemTranscriptionFailed       Type = "conversation.item.input_audio_transcription.failed"
	TypeConversationItemTruncated                 Type = "conversation.item.truncated"
	TypeConversationItemDeleted                   Type = "conversation.item.deleted"
	TypeInputAudioBufferCommitted                 Type = "input_audio_buffer.committed"
	TypeInputAudioBufferCleared                   Type = "input_audio_buffer.cleared"
	TypeInputAudioBufferSpeechStarted             Type = "input_audio_buffer.speech_started"
	TypeInputAudioBufferSpeechStopped             Type = "input_audio_buffer.speech_stopped"
	TypeResponseCreated                           Type = "response.created"
	TypeResponseDone                              Type = "response.done"
	TypeResponseOutputItemAdded                   Type = "response.output_item.added"
	TypeResponseOutputItemDone                    Type = "response.output_item.done"
	TypeResponseContentPartAdded                  Type = "response.content_part.added"
	TypeResponseContentPartDone                   Type = "response.content_part.done"
	TypeResponseTextDelta                         Type = "response.text.delta"
	TypeResponseTextDone                          Type = "response.text.done"
	TypeResponseAudioTranscriptDelta              Type = "response.audio_transcript.delta"
	TypeResponseAudioTranscriptDone               Type = "response.audio_transcript.done"
	TypeResponseAudioDelta                        Type = "response.audio.delta"
	TypeResponseAudioDone                         Type = "response.audio.done"
	TypeResponseFunctionCallArgumentsDelta        Type = "response.function_call_arguments.delta"
	TypeResponseFunctionCallArgumentsDone         Type = "response.function_call_arguments.done"
	TypeRateLimitsUpdated                         Type = "rate_limits.updated"

	// Extensions
	TypeInputVideoFrameAppend                 Type = "input_audio_buffer.append_video_frame"
	TypeResponseFunctionCallSimpleBrowser     Type = "response.function_call.simple_browser"
	TypeResponseFunctionCallSimpleBrowserDone Type = "response.function_call.simple_browser.result"
)

// Event is the wire envelope shared by client and server messages. Unused
// fields stay empty and are omitted on the wire.
type Event struct {
	EventID         string        `json:"event_id,omitempty"`
	Type            Type          `json:"type"`
	Session         *Session      `json:"session,omitempty"`
	Audio           string        `json:"audio,omitempty"`
	Response        *Response     `json:"response,omitempty"`
	ItemID          string        `json:"item_id,omitempty"`
	PreviousItemID  string        `json:"previous_item_id,omitempty"`
	ResponseID      string        `json:"response_id,omitempty"`
	OutputIndex     int           `json:"output_index,omitempty"`
	ContentIndex    int           `json:"content_index,omitempty"`
	Delta           string        `json:"delta"`
	Item            *Item         `json:"item,omitempty"`
	ClientTimestamp int64         `json:"client_timestamp,omitempty"`
	Transcript      string        `json:"transcript,omitempty"`
	Name            string        `json:"name,omitempty"`
	Arguments       string        `json:"arguments,omitempty"`
	VideoFrame      []byte        `json:"video_frame,omitempty"`
	Instructions    string        `json:"instructions,omitempty"`
	Error           *EventError   `json:"error,omitempty"`
	Conversation    *Conversation `json:"conversation,omitempty"`
}

// EventError is the payload of an "error" server event.
type EventError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// Conversation identifies a server-side conversation object.
type Conversation struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

// Modality selects an input/output channel of a session.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
)

// ChatMode selects the session's interaction style. Video sessions are
// enabled here, not through the modalities list.
type ChatMode string

const (
	ChatModeAudio          ChatMode = "audio"
	ChatModeVideoPassive   ChatMode = "video_passive"
	ChatModeVideoProactive ChatMode = "video_preactive"
)

// Session carries the negotiable session parameters.
type Session struct {
	ID                      string                   `json:"id,omitempty"`
	Object                  string                   `json:"object,omitempty"`
	Model                   string                   `json:"model,omitempty"`
	Modalities              []Modality               `json:"modalities,omitempty"`
	Instructions            string                   `json:"instructions"`
	Voice                   string                   `json:"voice,omitempty"`
	InputAudioFormat        string                   `json:"input_audio_format"`
	OutputAudioFormat       string                   `json:"output_audio_format"`
	InputAudioTranscription *InputAudioTranscription `json:"input_audio_transcription,omitempty"`
	TurnDetection           *TurnDetection           `json:"turn_detection,omitempty"`
	Tools                   []Tool                   `json:"tools"`
	ToolChoice              string                   `json:"tool_choice,omitempty"`
	Temperature             float64                  `json:"temperature,omitempty"`
	MaxOutputTokens         any                      `json:"max_output_tokens,omitempty"` // "inf" or int
	BetaFields              *BetaFields              `json:"beta_fields"`
}

// BetaFields carries the pre-GA session extensions: chat mode and video
// geometry on the way in, TTS segmentation and browser-tool results on the
// way out.
type BetaFields struct {
	ChatMode      ChatMode       `json:"chat_mode,omitempty"`
	ImageSizeX    int            `json:"image_size_x,omitempty"`
	ImageSizeY    int            `json:"image_size_y,omitempty"`
	FPS           int            `json:"fps,omitempty"`
	TTSSource     string         `json:"tts_source,omitempty"`
	TTSExtra      *TTSExtra      `json:"tts_extra,omitempty"`
	SimpleBrowser *SimpleBrowser `json:"simple_browser,omitempty"`
	IsLastText    bool           `json:"is_last_text,omitempty"`
	MessageID     string         `json:"message_id,omitempty"`
	AutoSearch    *bool          `json:"auto_search,omitempty"`
}

// TTSExtra segments a synthesized utterance into ordered sub-texts.
type TTSExtra struct {
	Index    int    `json:"index"`
	SubIndex int    `json:"sub_index"`
	SubText  string `json:"sub_text"`
	IsEnd    bool   `json:"is_end"`
}

// SimpleBrowser is the payload of the simple_browser function-call events.
type SimpleBrowser struct {
	Description  string `json:"description"`
	SearchMeta   string `json:"search_meta"`
	Meta         string `json:"meta"`
	TextCitation string `json:"text_citation"`
}

// InputAudioTranscription enables server-side transcription of input audio.
type InputAudioTranscription struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model"`
}

// TurnDetection configures server- or client-side voice activity detection.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold,omitempty"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms,omitempty"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitempty"`
}

// Tool declares a function the model may call.
type Tool struct {
	Type        string          `json:"type"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Item is one conversation item: a message, a function call or its output.
type Item struct {
	ID        string        `json:"id,omitempty"`
	Object    string        `json:"object,omitempty"`
	Type      string        `json:"type,omitempty"`
	Status    string        `json:"status,omitempty"`
	Role      string        `json:"role,omitempty"`
	Content   []ContentPart `json:"content,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
	Output    string        `json:"output,omitempty"`
}

// ContentPart is one piece of an item's content.
type ContentPart struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Response is a server response object accumulated across response events.
type Response struct {
	ID            string `json:"id,omitempty"`
	Object        string `json:"object,omitempty"`
	Status        string `json:"status,omitempty"`
	StatusDetails any    `json:"status_details,omitempty"`
	Output        []Item `json:"output,omitempty"`
	Usage         *Usage `json:"usage,omitempty"`
}

// Usage reports token accounting for a completed response.
type Usage struct {
	TotalTokens  int `json:"total_tokens,omitempty"`
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}
