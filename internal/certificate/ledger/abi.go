package ledger

// certificateABI is the subset of the certificate contract this gateway calls.
// mintCertificate records the certificate id so tokenOfCertificate can map it
// back to the numeric token id.
const certificateABI = `[
  {"type":"function","name":"mintCertificate","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"certificateId","type":"string"},{"name":"uri","type":"string"}],
   "outputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],
   "outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"tokenOfCertificate","stateMutability":"view",
   "inputs":[{"name":"certificateId","type":"string"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"event","name":"Transfer","anonymous":false,
   "inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]}
]`
