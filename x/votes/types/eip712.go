package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Typed-data signing identity for vote submissions. The chain id slot of the
// domain carries the configured signing chain id, or a proxy submitter's
// configured one.
const (
	SigningDomainName    = "GovBridge Votes"
	SigningDomainVersion = "1"
)

var (
	domainTypeHash = crypto.Keccak256Hash(
		[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"),
	)
	voteTypeHash = crypto.Keccak256Hash(
		[]byte("Vote(address account,bytes32 sessionKey,uint256 nonce,uint256 totalVotes,Allocation[] allocations)Allocation(bytes32 reactorKey,uint256 amount)"),
	)
	allocationTypeHash = crypto.Keccak256Hash(
		[]byte("Allocation(bytes32 reactorKey,uint256 amount)"),
	)
)

// DomainSeparator hashes the signing domain for one chain id and aggregator identity.
func DomainSeparator(chainID uint64, verifyingContract common.Address) common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		crypto.Keccak256([]byte(SigningDomainName)),
		crypto.Keccak256([]byte(SigningDomainVersion)),
		uintWord(chainID),
		common.LeftPadBytes(verifyingContract.Bytes(), 32),
	)
}

// HashVotePayload returns the canonical struct hash of a payload. The payload
// chain id is excluded: the domain separator carries the chain binding.
func HashVotePayload(p VotePayload) common.Hash {
	allocHashes := make([]byte, 0, common.HashLength*len(p.Allocations))
	for _, alloc := range p.Allocations {
		h := crypto.Keccak256(
			allocationTypeHash.Bytes(),
			alloc.ReactorKey.Bytes(),
			common.LeftPadBytes(alloc.Amount.BigInt().Bytes(), 32),
		)
		allocHashes = append(allocHashes, h...)
	}

	return crypto.Keccak256Hash(
		voteTypeHash.Bytes(),
		common.LeftPadBytes(p.Account.Bytes(), 32),
		p.SessionKey.Bytes(),
		uintWord(p.Nonce),
		common.LeftPadBytes(p.TotalVotes.BigInt().Bytes(), 32),
		crypto.Keccak256(allocHashes),
	)
}

// VoteDigest combines domain separator and struct hash into the signable digest.
func VoteDigest(chainID uint64, verifyingContract common.Address, p VotePayload) common.Hash {
	separator := DomainSeparator(chainID, verifyingContract)
	return crypto.Keccak256Hash(
		[]byte{0x19, 0x01},
		separator.Bytes(),
		HashVotePayload(p).Bytes(),
	)
}

// RecoverSigner recovers the signing address from a 65-byte [R || S || V]
// signature over a digest. V may be 0/1 or 27/28.
func RecoverSigner(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, ErrInvalidSignature.Wrapf("signature must be 65 bytes, got %d", len(signature))
	}

	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, ErrInvalidSignature.Wrap(err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}
