package log

import (
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

// Same ordering as logrus levels.
const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// A Context adds fields to every log line, for instance the program counter
// of the CPU being run.
type Context interface {
	AddLogContext(z *EntryZ)
}

var (
	ctxmu    sync.Mutex
	contexts []Context
)

func AddContext(c Context) {
	ctxmu.Lock()
	defer ctxmu.Unlock()
	contexts = append(contexts, c)
}

func RemoveContext(c Context) {
	ctxmu.Lock()
	defer ctxmu.Unlock()
	for i := range contexts {
		if contexts[i] == c {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}

func contextFields() logrus.Fields {
	fields := make(logrus.Fields, 8)

	var z EntryZ
	ctxmu.Lock()
	for _, c := range contexts {
		c.AddLogContext(&z)
	}
	ctxmu.Unlock()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	return fields
}

// EntryZ is a log entry with typed fields. A nil *EntryZ is valid and is
// returned when the module/level is disabled, so that field methods and End
// cost almost nothing.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [16]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	z := entryPool.Get().(*EntryZ)
	z.zfidx = 0
	return z
}

func (z *EntryZ) add() *ZField {
	if z.zfidx == len(z.zfbuf) {
		return nil
	}
	f := &z.zfbuf[z.zfidx]
	*f = ZField{}
	z.zfidx++
	return f
}

func (z *EntryZ) field(typ FieldType, key string) *ZField {
	f := z.add()
	if f != nil {
		f.Type = typ
		f.Key = key
	}
	return f
}

func (z *EntryZ) Bool(key string, v bool) *EntryZ {
	if z != nil {
		if f := z.field(FieldTypeBool, key); f != nil {
			f.Boolean = v
		}
	}
	return z
}

func (z *EntryZ) String(key string, v string) *EntryZ {
	if z != nil {
		if f := z.field(FieldTypeString, key); f != nil {
			f.String = v
		}
	}
	return z
}

func (z *EntryZ) integer(typ FieldType, key string, v uint64) *EntryZ {
	if z != nil {
		if f := z.field(typ, key); f != nil {
			f.Integer = v
		}
	}
	return z
}

// Hex24 adds a 24-bit address, written bank:offset.
func (z *EntryZ) Hex24(key string, v uint32) *EntryZ { return z.integer(FieldTypeAddr, key, uint64(v)) }
func (z *EntryZ) Int(key string, v int) *EntryZ      { return z.integer(FieldTypeInt, key, uint64(v)) }
func (z *EntryZ) Int64(key string, v int64) *EntryZ  { return z.integer(FieldTypeInt, key, uint64(v)) }

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	if z != nil {
		if f := z.field(FieldTypeDuration, key); f != nil {
			f.Duration = d
		}
	}
	return z
}

// End emits the entry and releases it. The entry must not be used afterwards.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := contextFields()
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	lvl, msg := z.lvl, z.msg
	entryPool.Put(z)

	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	case FatalLevel:
		entry.Fatal(msg)
	default:
		entry.Panic(msg)
	}
}

// SetDebugOutput makes logrus emit debug entries; module masks still decide
// which ones are produced.
func SetDebugOutput() {
	logrus.SetLevel(logrus.DebugLevel)
}
