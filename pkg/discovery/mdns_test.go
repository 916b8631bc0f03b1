package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvertiseCommissionable(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())

	err := adv.AdvertiseCommissionable(context.Background(), &discovery.CommissionableInfo{
		InstanceName:      "DD200C20D25AE5F7",
		LongDiscriminator: 840,
		VendorID:          0xFFF1,
		ProductID:         0x8001,
		CommissioningMode: discovery.CommissioningModeBasic,
	})
	require.NoError(t, err)
	require.Len(t, reg.Services, 1)

	svc := reg.Services[0]
	assert.Equal(t, "DD200C20D25AE5F7", svc.Instance)
	assert.Equal(t, "_matterc._udp,_S3,_L840,_V65521,_CM", svc.Service)
	assert.Equal(t, discovery.DefaultPort, svc.Port)
	assert.Equal(t, uint32(120), svc.TTL)
	assert.Equal(t, []string{"CM=1", "D=840", "VP=65521+32769"}, svc.Text)
	assert.Equal(t, "DD200C20D25AE5F7", adv.CommissionableInstanceName())
}

func TestAdvertiseCommissionableRandomInstance(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())

	require.NoError(t, adv.AdvertiseCommissionable(context.Background(), &discovery.CommissionableInfo{LongDiscriminator: 1}))
	require.Len(t, reg.Services, 1)
	assert.Regexp(t, "^[0-9A-F]{16}$", reg.Services[0].Instance)
}

func TestAdvertiseCommissionableReplacesPrevious(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())
	ctx := context.Background()

	require.NoError(t, adv.AdvertiseCommissionable(ctx, &discovery.CommissionableInfo{InstanceName: "A"}))
	require.NoError(t, adv.AdvertiseCommissionable(ctx, &discovery.CommissionableInfo{InstanceName: "B"}))

	require.Len(t, reg.Services, 2)
	assert.True(t, reg.Services[0].Stopped)
	assert.False(t, reg.Services[1].Stopped)
}

func TestAdvertiseCommissionableInvalidDiscriminator(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())

	err := adv.AdvertiseCommissionable(context.Background(), &discovery.CommissionableInfo{LongDiscriminator: 4096})
	assert.ErrorIs(t, err, discovery.ErrInvalidDiscriminator)
	assert.Empty(t, reg.Services)
}

func TestUpdateCommissionable(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())

	info := &discovery.CommissionableInfo{InstanceName: "A", LongDiscriminator: 5}
	assert.ErrorIs(t, adv.UpdateCommissionable(info), discovery.ErrNotFound)

	require.NoError(t, adv.AdvertiseCommissionable(context.Background(), info))
	info.DeviceName = "Lamp"
	require.NoError(t, adv.UpdateCommissionable(info))
	assert.Contains(t, reg.Services[0].Text, "DN=Lamp")
}

func TestAdvertiseOperational(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.AdvertiserConfig{TTL: 10 * time.Second})
	peer := discovery.PeerID{CompressedFabricID: 0xAB, NodeID: 0x1}

	err := adv.AdvertiseOperational(context.Background(), &discovery.OperationalInfo{
		Peer: peer,
		Port: 5541,
		MRP:  discovery.MRPHints{Idle: 5 * time.Second},
	})
	require.NoError(t, err)
	require.Len(t, reg.Services, 1)

	svc := reg.Services[0]
	assert.Equal(t, "0000000000000001-00000000000000AB", svc.Instance)
	assert.Equal(t, "_matter._tcp,_I00000000000000AB", svc.Service)
	assert.Equal(t, 5541, svc.Port)
	assert.Equal(t, uint32(10), svc.TTL)
	assert.Equal(t, []string{"SII=5000"}, svc.Text)

	require.NoError(t, adv.StopOperational(peer))
	assert.True(t, svc.Stopped)
	assert.ErrorIs(t, adv.StopOperational(peer), discovery.ErrNotFound)
}

func TestAdvertiseCommissioner(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())

	err := adv.AdvertiseCommissioner(context.Background(), &discovery.CommissionerInfo{
		InstanceName: "C0FFEE",
		VendorID:     0xFFF1,
		DeviceType:   35,
		DeviceName:   "Hub",
	})
	require.NoError(t, err)
	require.Len(t, reg.Services, 1)
	assert.Equal(t, "_matterd._udp,_V65521,_T35", reg.Services[0].Service)
	assert.Equal(t, []string{"DN=Hub", "DT=35", "VP=65521"}, reg.Services[0].Text)

	require.NoError(t, adv.StopCommissioner())
	assert.True(t, reg.Services[0].Stopped)
}

func TestAdvertiseRegisterError(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())
	reg.Err = errors.New("no interfaces")

	err := adv.AdvertiseOperational(context.Background(), &discovery.OperationalInfo{})
	assert.ErrorContains(t, err, "no interfaces")
}

func TestStopAll(t *testing.T) {
	adv, reg := discovery.NewCapturingAdvertiser(discovery.DefaultAdvertiserConfig())
	ctx := context.Background()

	require.NoError(t, adv.AdvertiseCommissionable(ctx, &discovery.CommissionableInfo{InstanceName: "A"}))
	require.NoError(t, adv.AdvertiseCommissioner(ctx, &discovery.CommissionerInfo{InstanceName: "B"}))
	require.NoError(t, adv.AdvertiseOperational(ctx, &discovery.OperationalInfo{Peer: discovery.PeerID{NodeID: 1}}))
	require.NoError(t, adv.AdvertiseOperational(ctx, &discovery.OperationalInfo{Peer: discovery.PeerID{NodeID: 2}}))

	adv.StopAll()

	for _, svc := range reg.Services {
		assert.True(t, svc.Stopped, svc.Instance)
	}
	assert.Empty(t, adv.CommissionableInstanceName())
}
