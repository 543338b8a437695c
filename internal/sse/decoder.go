// Package sse は Server-Sent-Events ストリームのフレームを解読します。
// トランスポートからは独立しており、任意の io.Reader を受け付けます。
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Event は1フレーム分のイベントです。
type Event struct {
	// Name は "event:" フィールドの値です。未指定なら空です。
	Name string
	// Data は "data:" 行を改行で連結したペイロードです。
	Data string
}

// Decoder はストリームを逐次読み取り、完成したイベントを返します。
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder は r を読むデコーダを生成します。
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	// data 行には記事全文が乗ることがあるため、バッファを広げておきます
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Decoder{scanner: sc}
}

// Next は次のイベントを返します。ストリーム終端では io.EOF を返します。
// 空行がイベントの区切りで、終端の区切りを欠いた最終イベントも受理します。
func (d *Decoder) Next() (Event, error) {
	var ev Event
	var data []string

	for d.scanner.Scan() {
		line := strings.TrimRight(d.scanner.Text(), "\r")

		switch {
		case line == "":
			if len(data) > 0 || ev.Name != "" {
				ev.Data = strings.Join(data, "\n")
				return ev, nil
			}
			// イベント開始前の空行は読み飛ばします
		case strings.HasPrefix(line, ":"):
			// コメント行
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	if len(data) > 0 || ev.Name != "" {
		ev.Data = strings.Join(data, "\n")
		return ev, nil
	}
	return Event{}, io.EOF
}

// All はストリームを最後まで読み、イベント列を返します。
func (d *Decoder) All() ([]Event, error) {
	var events []Event
	for {
		ev, err := d.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}
