// Copyright 2018 Andrew Fort
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package roomcodec

import "github.com/roomproto/room/room"

// config is New's fully-resolved construction state: the wire-format
// field caps plus the optional trace hooks. It exists as its own type,
// separate from room.StreamOptions, because the trace hooks are a
// roomcodec-only concern — room.StreamOptions is a plain comparable
// config struct shared with roomservice and must stay free of funcs.
type config struct {
	stream room.StreamOptions
	trace  *Trace
}

// Option is a constructor option function for New.
type Option func(*config)

// WithReadBufferSize configures the codec's read staging buffer size.
func WithReadBufferSize(n int) Option {
	return func(c *config) { c.stream.ReadBufferSize = n }
}

// WithWriteBufferSize configures the codec's write staging buffer size.
func WithWriteBufferSize(n int) Option {
	return func(c *config) { c.stream.WriteBufferSize = n }
}

// WithMaxVerbLength caps a parsed Verb's byte length.
func WithMaxVerbLength(n int) Option {
	return func(c *config) { c.stream.MaxVerbLength = n }
}

// WithMaxChannelLength caps a parsed Channel's byte length.
func WithMaxChannelLength(n int) Option {
	return func(c *config) { c.stream.MaxChannelLength = n }
}

// WithMaxCountLength caps a parsed Count's byte length.
func WithMaxCountLength(n int) Option {
	return func(c *config) { c.stream.MaxCountLength = n }
}

// WithMaxContentLength caps the numeric value a Count may declare.
func WithMaxContentLength(n int64) Option {
	return func(c *config) { c.stream.MaxContentLength = n }
}

// WithMaxFastBuffering sets the in-memory/temp-file content threshold.
func WithMaxFastBuffering(n int64) Option {
	return func(c *config) { c.stream.MaxFastBuffering = n }
}

// WithTempContentFolder sets the directory spilled content files are
// created under.
func WithTempContentFolder(dir string) Option {
	return func(c *config) { c.stream.TempContentFolder = dir }
}

// WithTrace installs trace hooks on the constructed Codec. Any hook
// left nil in t is filled in from NoOpTrace, so a caller only supplies
// the hooks it cares about.
func WithTrace(t *Trace) Option {
	return func(c *config) { c.trace = mergeTrace(t) }
}
