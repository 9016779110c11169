package grpc

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Messages of clinicbook.v1.AppointmentsService. Field numbers follow
// proto/clinicbook/v1/appointments.proto.

type Appointment struct {
	Id         string
	PatientId  string
	DoctorId   string
	RoomName   string
	StartsAt   *timestamppb.Timestamp
	FinishesAt *timestamppb.Timestamp
	CreatedAt  *timestamppb.Timestamp
}

type ListAppointmentsRequest struct{}

type ListAppointmentsResponse struct {
	Appointments []*Appointment
}

type GetAppointmentRequest struct {
	Id string
}

type GetAppointmentResponse struct {
	Appointment *Appointment
}

type CreateAppointmentRequest struct {
	PatientId  string
	DoctorId   string
	RoomName   string
	StartsAt   *timestamppb.Timestamp
	FinishesAt *timestamppb.Timestamp
}

type CreateAppointmentResponse struct {
	Appointment *Appointment
}

type DeleteAppointmentRequest struct {
	Id string
}

type DeleteAppointmentResponse struct{}

type DeleteAllAppointmentsRequest struct{}

type DeleteAllAppointmentsResponse struct{}

// wireMessage is implemented by every message above.
type wireMessage interface {
	appendWire(b []byte) ([]byte, error)
	consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error)
}

var errWireType = errors.New("unexpected wire type")

func marshalWire(m wireMessage) ([]byte, error) {
	return m.appendWire(nil)
}

func unmarshalWire(b []byte, m wireMessage) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := m.consumeField(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, m wireMessage) ([]byte, error) {
	inner, err := m.appendWire(nil)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner), nil
}

func appendTimestamp(b []byte, num protowire.Number, ts *timestamppb.Timestamp) ([]byte, error) {
	if ts == nil {
		return b, nil
	}
	inner, err := proto.Marshal(ts)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner), nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, errWireType
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeTimestamp(typ protowire.Type, b []byte, dst **timestamppb.Timestamp) (int, error) {
	if typ != protowire.BytesType {
		return 0, errWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	ts := &timestamppb.Timestamp{}
	if err := proto.Unmarshal(v, ts); err != nil {
		return 0, err
	}
	*dst = ts
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, m wireMessage) (int, error) {
	if typ != protowire.BytesType {
		return 0, errWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if err := unmarshalWire(v, m); err != nil {
		return 0, err
	}
	return n, nil
}

func (m *Appointment) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.Id)
	b = appendString(b, 2, m.PatientId)
	b = appendString(b, 3, m.DoctorId)
	b = appendString(b, 4, m.RoomName)
	var err error
	if b, err = appendTimestamp(b, 5, m.StartsAt); err != nil {
		return nil, err
	}
	if b, err = appendTimestamp(b, 6, m.FinishesAt); err != nil {
		return nil, err
	}
	return appendTimestamp(b, 7, m.CreatedAt)
}

func (m *Appointment) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Id)
	case 2:
		return consumeString(typ, b, &m.PatientId)
	case 3:
		return consumeString(typ, b, &m.DoctorId)
	case 4:
		return consumeString(typ, b, &m.RoomName)
	case 5:
		return consumeTimestamp(typ, b, &m.StartsAt)
	case 6:
		return consumeTimestamp(typ, b, &m.FinishesAt)
	case 7:
		return consumeTimestamp(typ, b, &m.CreatedAt)
	}
	return 0, nil
}

func (m *ListAppointmentsRequest) appendWire(b []byte) ([]byte, error) { return b, nil }

func (m *ListAppointmentsRequest) consumeField(protowire.Number, protowire.Type, []byte) (int, error) {
	return 0, nil
}

func (m *ListAppointmentsResponse) appendWire(b []byte) ([]byte, error) {
	var err error
	for _, a := range m.Appointments {
		if b, err = appendMessage(b, 1, a); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *ListAppointmentsResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 {
		return 0, nil
	}
	a := &Appointment{}
	n, err := consumeMessage(typ, b, a)
	if err != nil {
		return 0, err
	}
	m.Appointments = append(m.Appointments, a)
	return n, nil
}

func (m *GetAppointmentRequest) appendWire(b []byte) ([]byte, error) {
	return appendString(b, 1, m.Id), nil
}

func (m *GetAppointmentRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 {
		return 0, nil
	}
	return consumeString(typ, b, &m.Id)
}

func (m *GetAppointmentResponse) appendWire(b []byte) ([]byte, error) {
	if m.Appointment == nil {
		return b, nil
	}
	return appendMessage(b, 1, m.Appointment)
}

func (m *GetAppointmentResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 {
		return 0, nil
	}
	m.Appointment = &Appointment{}
	return consumeMessage(typ, b, m.Appointment)
}

func (m *CreateAppointmentRequest) appendWire(b []byte) ([]byte, error) {
	b = appendString(b, 1, m.PatientId)
	b = appendString(b, 2, m.DoctorId)
	b = appendString(b, 3, m.RoomName)
	var err error
	if b, err = appendTimestamp(b, 4, m.StartsAt); err != nil {
		return nil, err
	}
	return appendTimestamp(b, 5, m.FinishesAt)
}

func (m *CreateAppointmentRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.PatientId)
	case 2:
		return consumeString(typ, b, &m.DoctorId)
	case 3:
		return consumeString(typ, b, &m.RoomName)
	case 4:
		return consumeTimestamp(typ, b, &m.StartsAt)
	case 5:
		return consumeTimestamp(typ, b, &m.FinishesAt)
	}
	return 0, nil
}

func (m *CreateAppointmentResponse) appendWire(b []byte) ([]byte, error) {
	if m.Appointment == nil {
		return b, nil
	}
	return appendMessage(b, 1, m.Appointment)
}

func (m *CreateAppointmentResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 {
		return 0, nil
	}
	m.Appointment = &Appointment{}
	return consumeMessage(typ, b, m.Appointment)
}

func (m *DeleteAppointmentRequest) appendWire(b []byte) ([]byte, error) {
	return appendString(b, 1, m.Id), nil
}

func (m *DeleteAppointmentRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 {
		return 0, nil
	}
	return consumeString(typ, b, &m.Id)
}

func (m *DeleteAppointmentResponse) appendWire(b []byte) ([]byte, error) { return b, nil }

func (m *DeleteAppointmentResponse) consumeField(protowire.Number, protowire.Type, []byte) (int, error) {
	return 0, nil
}

func (m *DeleteAllAppointmentsRequest) appendWire(b []byte) ([]byte, error) { return b, nil }

func (m *DeleteAllAppointmentsRequest) consumeField(protowire.Number, protowire.Type, []byte) (int, error) {
	return 0, nil
}

func (m *DeleteAllAppointmentsResponse) appendWire(b []byte) ([]byte, error) { return b, nil }

func (m *DeleteAllAppointmentsResponse) consumeField(protowire.Number, protowire.Type, []byte) (int, error) {
	return 0, nil
}
